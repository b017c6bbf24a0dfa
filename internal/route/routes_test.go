package route

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touristkiosk/internal/config"
	"touristkiosk/internal/handler"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/middleware"
	"touristkiosk/internal/repository/sqlite"
	"touristkiosk/internal/service/ai"
	"touristkiosk/internal/service/camera"
	"touristkiosk/internal/service/flow"
	"touristkiosk/internal/service/imaging"
	"touristkiosk/internal/service/storage"
	"touristkiosk/internal/service/websocket"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	root := t.TempDir()

	static := filepath.Join(root, "static")
	require.NoError(t, os.MkdirAll(static, 0755))
	for _, page := range []string{"index", "login", "admin"} {
		require.NoError(t, os.WriteFile(filepath.Join(static, page+".html"), []byte("<h1>"+page+"</h1>"), 0644))
	}
	old := StaticDir
	StaticDir = static
	t.Cleanup(func() { StaticDir = old })

	cfg := &config.Config{DataRoot: root, LogDirectory: filepath.Join(root, "logs"), DefaultGain: 1.5, PreviewRate: 100, PreviewBurst: 10}
	log := logger.NewNop()

	db, err := sqlite.New(filepath.Join(root, "captures.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	captureRepo := sqlite.NewCaptureRepository(db)
	detectionRepo := sqlite.NewDetectionRepository(db)

	surveys := storage.NewSurveyStore(cfg.SurveyFile())
	driver := flow.NewDriver(flow.Dependencies{
		Source:     camera.StaticSource{},
		Enhancer:   imaging.GammaEnhancer{},
		Detector:   ai.NewDetectorService(cfg, log),
		Classifier: ai.NewRandomClassifier(),
		Captures:   storage.NewCaptureService(cfg.ImageDirectory(), log, captureRepo, detectionRepo),
		Surveys:    surveys,
	}, 0.5, cfg.DefaultGain)

	return SetupRoutes(Services{
		Config:        cfg,
		Logger:        log,
		Kiosk:         &handler.Kiosk{Driver: driver, Sessions: flow.NewSessionRepository(), Config: cfg, Logger: log},
		Hub:           websocket.NewHubService(log),
		CaptureRepo:   captureRepo,
		DetectionRepo: detectionRepo,
		Surveys:       surveys,
		ImagesDir:     cfg.ImageDirectory(),
	})
}

func TestRoutes(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		authed bool
		status int
	}{
		{"kiosk page", http.MethodGet, "/", false, http.StatusOK},
		{"login page", http.MethodGet, "/login", false, http.StatusOK},
		{"unknown page", http.MethodGet, "/nope", false, http.StatusNotFound},
		{"state", http.MethodGet, "/api/state", false, http.StatusOK},
		{"survey before capture", http.MethodGet, "/api/survey", false, http.StatusConflict},
		{"preview without camera", http.MethodPost, "/api/capture/preview", false, http.StatusServiceUnavailable},
		{"admin page anonymous", http.MethodGet, "/admin", false, http.StatusSeeOther},
		{"admin page", http.MethodGet, "/admin", true, http.StatusOK},
		{"admin api anonymous", http.MethodGet, "/api/admin/captures", false, http.StatusUnauthorized},
		{"admin captures", http.MethodGet, "/api/admin/captures", true, http.StatusOK},
		{"admin surveys", http.MethodGet, "/api/admin/surveys", true, http.StatusOK},
		{"admin page via static anonymous", http.MethodGet, "/static/admin.html", false, http.StatusNotFound},
		{"admin page via static dir trick", http.MethodGet, "/static/./admin.html", false, http.StatusNotFound},
		{"admin page trailing slash anonymous", http.MethodGet, "/admin/", false, http.StatusNotFound},
		{"admin page dotted anonymous", http.MethodGet, "/x/../admin", false, http.StatusNotFound},
		{"login page via static", http.MethodGet, "/static/login.html", false, http.StatusOK},
		{"logs anonymous", http.MethodGet, "/logs/info", false, http.StatusSeeOther},
		{"wrong method", http.MethodGet, "/api/next", false, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.authed {
				req.AddCookie(&http.Cookie{Name: middleware.AuthCookie, Value: "true"})
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
