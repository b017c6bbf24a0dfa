package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"touristkiosk/internal/config"
	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/model"
	"touristkiosk/internal/service/ai"
	"touristkiosk/internal/service/flow"
	"touristkiosk/internal/service/imaging"
)

// SessionCookie identifies the visitor session of a kiosk browser.
const SessionCookie = "kiosk_session"

// maxFrameSize bounds uploaded preview frames.
const maxFrameSize = 10 << 20

// Kiosk bundles what the visitor-facing handlers share.
type Kiosk struct {
	Driver   *flow.Driver
	Sessions *flow.SessionRepository
	Config   *config.Config
	Logger   *logger.Logger
}

// session returns the caller's session, issuing a cookie when a new one was created.
func (k *Kiosk) session(w http.ResponseWriter, r *http.Request) *model.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	s := k.Sessions.Get(id)
	if s.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (k *Kiosk) handle(w http.ResponseWriter, r *http.Request, ev flow.Event) {
	s := k.session(w, r)
	screen, err := k.Driver.Handle(r.Context(), s, ev)

	status := http.StatusOK
	if err != nil {
		status = StatusFor(err)
		if status >= http.StatusInternalServerError {
			k.Logger.Error("Session %s: %s failed: %v", s.ID, ev.Name(), err)
		}
	}
	writeJSON(w, status, screen, k.Logger)
}

// StateHandler handles GET /api/state by rendering the current screen.
func (k *Kiosk) StateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.handle(w, r, flow.Render{})
	}
}

// PreviewHandler handles POST /api/capture/preview. The form field "gain"
// sets the brightness; an optional multipart file "frame" replaces the camera.
func (k *Kiosk) PreviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFrameSize+1<<20)

		var frame []byte
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxFrameSize); err != nil {
				http.Error(w, "Invalid form", http.StatusBadRequest)
				return
			}
			if file, _, err := r.FormFile("frame"); err == nil {
				frame, err = io.ReadAll(file)
				file.Close()
				if err != nil {
					http.Error(w, "Error reading frame", http.StatusBadRequest)
					return
				}
			}
		}

		k.handle(w, r, flow.Preview{
			Gain:  parseGain(r.FormValue("gain"), k.Config.DefaultGain),
			Frame: frame,
		})
	}
}

// ConfirmHandler handles POST /api/capture/confirm.
func (k *Kiosk) ConfirmHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.handle(w, r, flow.ConfirmCapture{})
	}
}

// SurveyHandler handles GET /api/survey.
func (k *Kiosk) SurveyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.handle(w, r, flow.EnterSurvey{})
	}
}

// SubmitHandler handles POST /api/survey/submit with a JSON body.
func (k *Kiosk) SubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var answers dto.SurveyAnswers
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&answers); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		k.handle(w, r, flow.SubmitSurvey{Answers: answers})
	}
}

// NextHandler handles POST /api/next.
func (k *Kiosk) NextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		k.handle(w, r, flow.NextVisitor{})
	}
}

// CaptureImageHandler serves the photo saved for the caller's own session.
func (k *Kiosk) CaptureImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Name parameter is required", http.StatusBadRequest)
			return
		}

		path := k.Driver.CapturedImage(k.session(w, r))
		if path == "" || filepath.Base(path) != name {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, path)
	}
}

// StatusFor maps a flow error to the HTTP status returned with the screen.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, flow.ErrCameraUnavailable), errors.Is(err, ai.ErrDetectorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, flow.ErrMissingCapture), errors.Is(err, flow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, flow.ErrNoPerson), errors.Is(err, flow.ErrConsentRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, flow.ErrInvalidAnswers):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parseGain reads the slider value, falling back to def and clamping to the allowed range.
func parseGain(v string, def float64) float64 {
	gain, err := strconv.ParseFloat(v, 64)
	if err != nil {
		gain = def
	}
	return imaging.ClampGain(gain)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
