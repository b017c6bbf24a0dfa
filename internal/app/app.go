package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"touristkiosk/internal/config"
	"touristkiosk/internal/handler"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/repository/sqlite"
	"touristkiosk/internal/route"
	"touristkiosk/internal/service/ai"
	"touristkiosk/internal/service/camera"
	"touristkiosk/internal/service/flow"
	"touristkiosk/internal/service/imaging"
	"touristkiosk/internal/service/storage"
	"touristkiosk/internal/service/websocket"
)

type App struct {
	config   *config.Config
	logger   *logger.Logger
	db       *sqlite.DB
	detector *ai.DetectorService
	hub      *websocket.HubService
	handler  http.Handler
}

// NewApp wires storage, detection, the flow driver and the HTTP routes.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.ImageDirectory(), 0755); err != nil {
		return nil, eris.Wrap(err, "create data directory")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, eris.Wrap(err, "create database directory")
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, eris.Wrap(err, "open capture index")
	}
	captureRepo := sqlite.NewCaptureRepository(db)
	detectionRepo := sqlite.NewDetectionRepository(db)

	enhancer, err := imaging.NewEnhancer(cfg.Enhancer)
	if err != nil {
		log.Warning("%v, falling back to gamma", err)
		enhancer = imaging.GammaEnhancer{}
	}

	detector := ai.NewDetectorService(cfg, log)
	device := camera.NewDeviceSource(cfg.CameraDevice)
	hub := websocket.NewHubService(log)
	surveys := storage.NewSurveyStore(cfg.SurveyFile())
	captures := storage.NewCaptureService(cfg.ImageDirectory(), log, captureRepo, detectionRepo)

	driver := flow.NewDriver(flow.Dependencies{
		Source:     device,
		Enhancer:   enhancer,
		Detector:   detector,
		Classifier: ai.NewRandomClassifier(),
		Captures:   captures,
		Surveys:    surveys,
		Notifier:   hub,
		Logger:     log,
	}, cfg.DetectionThreshold, cfg.DefaultGain)

	router := route.SetupRoutes(route.Services{
		Config: cfg,
		Logger: log,
		Kiosk: &handler.Kiosk{
			Driver:   driver,
			Sessions: flow.NewSessionRepository(),
			Config:   cfg,
			Logger:   log,
		},
		Hub:           hub,
		CaptureRepo:   captureRepo,
		DetectionRepo: detectionRepo,
		Surveys:       surveys,
		ImagesDir:     cfg.ImageDirectory(),
	})

	return &App{
		config:   cfg,
		logger:   log,
		db:       db,
		detector: detector,
		hub:      hub,
		handler:  router,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves HTTP until ctx is cancelled, then shuts down and releases resources.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	go a.hub.Run(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("Tourist kiosk listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Data root: %s", a.config.DataRoot)
	a.logger.Info("AI model: %s", a.config.ModelPath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutdown")
	}
	return nil
}

func (a *App) close() {
	if err := a.detector.Close(); err != nil {
		a.logger.Error("Error closing detector: %v", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database: %v", err)
	}
	a.logger.Info("Kiosk stopped")
	a.logger.Sync()
}
