package route

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"touristkiosk/internal/config"
	"touristkiosk/internal/handler"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/middleware"
	"touristkiosk/internal/repository"
	"touristkiosk/internal/service/storage"
	"touristkiosk/internal/service/websocket"
)

// StaticDir holds the kiosk, login and admin pages.
var StaticDir = "static"

// protectedPages are only served through the auth group.
var protectedPages = map[string]bool{"admin": true}

// dynamicHTMLHandler serves /path as /static/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		path = "/index"
	}

	page := strings.TrimPrefix(filepath.Clean("/"+path), "/")
	if protectedPages[page] {
		http.NotFound(w, r)
		return
	}
	servePage(w, r, page)
}

func servePage(w http.ResponseWriter, r *http.Request, page string) {
	filePath := filepath.Join(StaticDir, page+".html")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}

// staticHandler serves StaticDir except the protected pages.
func staticHandler() http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.Dir(StaticDir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(filepath.Clean("/"+strings.TrimPrefix(r.URL.Path, "/static/")), "/")
		if protectedPages[strings.TrimSuffix(name, ".html")] {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Services are the dependencies the routes hand to their handlers.
type Services struct {
	Config        *config.Config
	Logger        *logger.Logger
	Kiosk         *handler.Kiosk
	Hub           *websocket.HubService
	CaptureRepo   repository.CaptureRepository
	DetectionRepo repository.DetectionRepository
	Surveys       *storage.SurveyStore
	ImagesDir     string
}

// SetupRoutes registers the kiosk API, the admin API behind the auth cookie,
// log endpoints and the static pages.
func SetupRoutes(s Services) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Static files
	r.Handle("/static/*", staticHandler())

	// Kiosk API
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.Kiosk.StateHandler())
		r.With(middleware.RateLimit(s.Config.PreviewRate, s.Config.PreviewBurst, s.Logger)).
			Post("/capture/preview", s.Kiosk.PreviewHandler())
		r.Post("/capture/confirm", s.Kiosk.ConfirmHandler())
		r.Get("/survey", s.Kiosk.SurveyHandler())
		r.Post("/survey/submit", s.Kiosk.SubmitHandler())
		r.Post("/next", s.Kiosk.NextHandler())
		r.Get("/captures/image", s.Kiosk.CaptureImageHandler())

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware)
			r.Get("/admin/captures", handler.GetCapturesHandler(s.Logger, s.CaptureRepo, s.DetectionRepo))
			r.Get("/admin/captures/image", handler.ViewCaptureHandler(s.ImagesDir))
			r.Get("/admin/surveys", handler.GetSurveysHandler(s.Logger, s.Surveys))
			r.Get("/admin/events", handler.EventsWebsocketHandler(s.Hub, s.Logger))
		})
	})

	// Admin pages and log endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)
		r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
			servePage(w, r, "admin")
		})

		for _, name := range []string{"info", "warning", "error"} {
			file := name + ".log"
			r.Get("/logs/"+name, handler.ShowLogsHandler(s.Config.LogDirectory, file))
			r.Post("/logs/"+name+"/clear", handler.ClearLogsHandler(s.Logger, file))
		}
	})

	// Auth endpoints
	r.Post("/auth/login", handler.LoginHandler(s.Config, s.Logger))
	r.HandleFunc("/auth/logout", handler.LogoutHandler)

	// Automatic HTML handler mapping, for example /login -> /static/login.html
	r.Get("/*", dynamicHTMLHandler)

	return r
}
