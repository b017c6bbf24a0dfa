//go:build !gocv
// +build !gocv

package ai

import (
	"touristkiosk/internal/config"
	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"
)

// DetectorService is the detector-less build (no OpenCV).
type DetectorService struct {
	logger *logger.Logger
}

// NewDetectorService creates a stub; every detection reports ErrDetectorUnavailable.
func NewDetectorService(config *config.Config, logger *logger.Logger) *DetectorService {
	_ = config
	logger.Warning("Built without the gocv tag: person detection is disabled")
	return &DetectorService{logger: logger}
}

// DetectObjects returns ErrDetectorUnavailable when built without the gocv tag.
func (s *DetectorService) DetectObjects(frame []byte) ([]dto.DetectionResult, error) {
	_ = frame
	return nil, ErrDetectorUnavailable
}

// Close is a no-op.
func (s *DetectorService) Close() error {
	return nil
}
