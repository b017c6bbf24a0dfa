package repository

import (
	"touristkiosk/internal/model"
)

// CaptureRepository defines the interface for the capture index.
type CaptureRepository interface {
	// Create operations
	Insert(c *model.Capture) (int64, error)

	// Read operations
	GetByFilename(filename string) (*model.Capture, error)
	GetAll(filter *model.CaptureFilter) ([]model.Capture, error)
	GetTotalCount(filter *model.CaptureFilter) (int, error)
	Exists(filename string) (bool, error)
}

// DetectionRepository defines the interface for the person box stored with each capture.
type DetectionRepository interface {
	Insert(det *model.Detection) (int64, error)
	GetByCaptureID(captureID int64) ([]model.Detection, error)
}
