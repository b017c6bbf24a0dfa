package storage

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/model"
	"touristkiosk/internal/repository"
	"touristkiosk/internal/service/imaging"
)

// Capture file naming: person_<YYYYMMDD_HHMMSS>.jpg
const (
	CapturePrefix     = "person_"
	CaptureExt        = ".jpg"
	CaptureNameLayout = "20060102_150405"
)

// CaptureName returns the file name used for a capture taken at ts.
func CaptureName(ts time.Time) string {
	return CapturePrefix + ts.Format(CaptureNameLayout) + CaptureExt
}

// ParseCaptureName extracts the timestamp from a capture file name.
func ParseCaptureName(name string) (time.Time, error) {
	if !strings.HasPrefix(name, CapturePrefix) || filepath.Ext(name) != CaptureExt {
		return time.Time{}, fmt.Errorf("not a capture file: %s", name)
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, CapturePrefix), CaptureExt)
	return time.ParseInLocation(CaptureNameLayout, stamp, time.Local)
}

// CaptureService writes confirmed person crops to disk and records them in the capture index.
type CaptureService struct {
	imagesDir     string
	mu            sync.Mutex
	logger        *logger.Logger
	captureRepo   repository.CaptureRepository
	detectionRepo repository.DetectionRepository
	now           func() time.Time
}

// NewCaptureService creates a CaptureService. Either repository may be nil, in
// which case captures are only written to disk.
func NewCaptureService(imagesDir string, logger *logger.Logger, captureRepo repository.CaptureRepository, detectionRepo repository.DetectionRepository) *CaptureService {
	return &CaptureService{
		imagesDir:     imagesDir,
		logger:        logger,
		captureRepo:   captureRepo,
		detectionRepo: detectionRepo,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for file names.
func (s *CaptureService) WithClock(now func() time.Time) *CaptureService {
	s.now = now
	return s
}

// Dir returns the directory captures are written to.
func (s *CaptureService) Dir() string {
	return s.imagesDir
}

// SaveCapture encodes crop as JPEG, writes it and returns the full path.
// Index failures are logged; the file on disk is what counts.
func (s *CaptureService) SaveCapture(crop image.Image, det dto.DetectionResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := imaging.EncodeJPEG(crop)
	if err != nil {
		return "", eris.Wrap(err, "encode capture")
	}

	if err := os.MkdirAll(s.imagesDir, 0755); err != nil {
		return "", eris.Wrapf(err, "create directory %s", s.imagesDir)
	}

	ts := s.now()
	filename := CaptureName(ts)
	fullpath := filepath.Join(s.imagesDir, filename)

	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return "", eris.Wrapf(err, "write capture %s", filename)
	}

	s.logger.Info("Saved capture %s (%d bytes, confidence %.2f)", filename, len(data), det.Confidence)

	s.index(&model.Capture{
		Filename:  filename,
		Timestamp: ts,
		FilePath:  fullpath,
		FileSize:  int64(len(data)),
	}, &det)

	return fullpath, nil
}

func (s *CaptureService) index(c *model.Capture, det *dto.DetectionResult) {
	if s.captureRepo == nil {
		return
	}

	captureID, err := s.captureRepo.Insert(c)
	if err != nil {
		s.logger.Error("Error saving capture to database %s: %v", c.Filename, err)
		return
	}

	if s.detectionRepo == nil || det == nil {
		return
	}
	if _, err := s.detectionRepo.Insert(&model.Detection{
		CaptureID:  captureID,
		Label:      det.Label,
		X:          det.X,
		Y:          det.Y,
		Width:      det.Width,
		Height:     det.Height,
		Confidence: det.Confidence,
	}); err != nil {
		s.logger.Error("Error saving detection to database: %v", err)
	}
}

// Reindex adds every capture file in the images directory that the index does
// not know yet. It returns how many files were added and how many were skipped.
func (s *CaptureService) Reindex() (added, skipped int, err error) {
	if s.captureRepo == nil {
		return 0, 0, eris.New("reindex: no capture repository")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.imagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, eris.Wrapf(err, "read %s", s.imagesDir)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ts, err := ParseCaptureName(file.Name())
		if err != nil {
			s.logger.Warning("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		exists, err := s.captureRepo.Exists(file.Name())
		if err != nil {
			return added, skipped, eris.Wrap(err, "reindex")
		}
		if exists {
			continue
		}

		info, err := file.Info()
		if err != nil {
			s.logger.Warning("Failed to get info for %s: %v", file.Name(), err)
			skipped++
			continue
		}

		if _, err := s.captureRepo.Insert(&model.Capture{
			Filename:  file.Name(),
			Timestamp: ts,
			FilePath:  filepath.Join(s.imagesDir, file.Name()),
			FileSize:  info.Size(),
		}); err != nil {
			return added, skipped, eris.Wrapf(err, "index %s", file.Name())
		}
		added++
	}

	s.logger.Info("Reindexed %d captures (%d skipped)", added, skipped)
	return added, skipped, nil
}
