//go:build gocv
// +build gocv

package ai

import (
	"fmt"
	"image"
	"os"
	"sync"
	"touristkiosk/internal/config"
	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"

	"gocv.io/x/gocv"
)

// DetectorService runs the SSD MobileNet COCO network and reports person boxes.
type DetectorService struct {
	net           gocv.Net
	ready         bool
	mu            sync.Mutex
	modelPath     string
	configPath    string
	personClassID int
	logger        *logger.Logger
}

// NewDetectorService creates a detector with model/config paths and a logger.
// It attempts to initialize the underlying DNN network.
func NewDetectorService(config *config.Config, logger *logger.Logger) *DetectorService {
	service := &DetectorService{
		modelPath:     config.ModelPath,
		configPath:    config.ConfigPath,
		personClassID: config.PersonClassID,
		logger:        logger,
	}

	if err := service.initializeNet(); err != nil {
		service.logger.Warning("Could not initialize detection network: %v", err)
		return service
	}

	return service
}

// initializeNet loads the DNN network and sets backend/target preferences.
func (s *DetectorService) initializeNet() error {
	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.modelPath)
	}

	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", s.configPath)
	}

	net := gocv.ReadNet(s.modelPath, s.configPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network")
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return fmt.Errorf("failed to set preferable backend or target")
	}

	s.net = net
	s.ready = true
	s.logger.Info("Detection network initialized successfully")
	return nil
}

// DetectObjects runs the DNN on the frame and returns every person box in the
// order the network reports them. Thresholding is left to SelectPerson.
func (s *DetectorService) DetectObjects(frame []byte) ([]dto.DetectionResult, error) {
	if !s.ready {
		return nil, ErrDetectorUnavailable
	}

	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	// SSD COCO input: 300x300, scaled to [-1, 1], BGR swapped to RGB.
	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	s.mu.Lock()
	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	s.mu.Unlock()
	defer output.Close()

	var results []dto.DetectionResult

	// Rows are [batch_id, class_id, confidence, x1, y1, x2, y2] with normalized coordinates.
	rows := output.Reshape(1, output.Total()/7)
	defer rows.Close()
	for i := 0; i < rows.Rows(); i++ {
		classID := int(rows.GetFloatAt(i, 1))
		if classID != s.personClassID {
			continue
		}

		confidence := rows.GetFloatAt(i, 2)
		x := int(rows.GetFloatAt(i, 3) * float32(mat.Cols()))
		y := int(rows.GetFloatAt(i, 4) * float32(mat.Rows()))
		width := int(rows.GetFloatAt(i, 5)*float32(mat.Cols())) - x
		height := int(rows.GetFloatAt(i, 6)*float32(mat.Rows())) - y

		results = append(results, dto.DetectionResult{
			Label:      PersonLabel,
			Confidence: float64(confidence),
			X:          x,
			Y:          y,
			Width:      width,
			Height:     height,
		})
	}

	return results, nil
}

// Close releases the network.
func (s *DetectorService) Close() error {
	if s.ready {
		s.ready = false
		return s.net.Close()
	}
	return nil
}
