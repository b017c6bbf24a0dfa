package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"touristkiosk/internal/config"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/middleware"
)

func TestShowAndClearLogs(t *testing.T) {
	dir := t.TempDir()
	log, err := logger.NewLogger(&config.Config{LogDirectory: dir, LogLevel: "info"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	log.Warning("camera cable loose")
	log.Sync()

	rec := httptest.NewRecorder()
	ShowLogsHandler(dir, logger.WarningFile)(rec, httptest.NewRequest(http.MethodGet, "/logs/warning", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "camera cable loose") {
		t.Fatalf("Expected warning log content, got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	ClearLogsHandler(log, logger.WarningFile)(rec, httptest.NewRequest(http.MethodPost, "/logs/warning/clear", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	data, err := os.ReadFile(filepath.Join(dir, logger.WarningFile))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected empty log after clear, got %q", data)
	}
}

func TestShowLogs_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	ShowLogsHandler(t.TempDir(), logger.ErrorFile)(rec, httptest.NewRequest(http.MethodGet, "/logs/error", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	cfg := &config.Config{Password: "secret"}
	h := LoginHandler(cfg, logger.NewNop())

	post := func(password string) *httptest.ResponseRecorder {
		form := url.Values{"password": {password}}
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	if rec := post("wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong password, got %d", rec.Code)
	}

	rec := post("secret")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.AuthCookie || cookies[0].Value != "true" {
		t.Errorf("Expected auth cookie, got %+v", cookies)
	}
}

func TestLogoutHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LogoutHandler(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("Expected redirect, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("Expected expired auth cookie, got %+v", cookies)
	}
}
