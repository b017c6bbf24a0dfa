package ai

import (
	"errors"
	"image"

	"touristkiosk/internal/dto"
)

// PersonLabel is the label attached to every box the detector reports.
const PersonLabel = "person"

// ErrDetectorUnavailable means the network could not be loaded.
var ErrDetectorUnavailable = errors.New("detection network not initialized")

// ObjectDetector reports person boxes found in an encoded frame.
type ObjectDetector interface {
	DetectObjects(frame []byte) ([]dto.DetectionResult, error)
}

// SelectPerson returns the first box whose confidence exceeds threshold.
// Later boxes are ignored even when they score higher.
func SelectPerson(detections []dto.DetectionResult, threshold float64) (dto.DetectionResult, bool) {
	for _, d := range detections {
		if d.Confidence > threshold {
			return d, true
		}
	}
	return dto.DetectionResult{}, false
}

// Rect converts a detection into an image rectangle.
func Rect(d dto.DetectionResult) image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

var _ ObjectDetector = (*DetectorService)(nil)
