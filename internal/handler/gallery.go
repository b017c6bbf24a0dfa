package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/model"
	"touristkiosk/internal/repository"
	"touristkiosk/internal/service/storage"
)

// GetCapturesHandler returns a page of stored captures from the capture index.
func GetCapturesHandler(logger *logger.Logger, captureRepo repository.CaptureRepository,
	detectionRepo repository.DetectionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &model.CaptureFilter{
			StartDate: parseDate(q.Get("dateAfter")),
			EndDate:   parseDate(q.Get("dateBefore")),
			Limit:     limit,
			Offset:    (page - 1) * limit,
		}
		if !filter.EndDate.IsZero() {
			// Inclusive of the whole "before" day.
			filter.EndDate = filter.EndDate.AddDate(0, 0, 1)
		}

		captures, err := captureRepo.GetAll(filter)
		if err != nil {
			logger.Error("Error querying captures from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := captureRepo.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting captures: %v", err)
			totalCount = len(captures)
		}

		infos := make([]dto.CaptureInfo, 0, len(captures))
		for _, c := range captures {
			info := dto.CaptureInfo{Name: c.Filename, Date: c.Timestamp, TimeOfDay: c.Timestamp}
			if detectionRepo != nil {
				dets, err := detectionRepo.GetByCaptureID(c.ID)
				if err != nil {
					logger.Error("Error getting detection for capture %d: %v", c.ID, err)
				} else if len(dets) > 0 {
					info.Confidence = dets[0].Confidence
				}
			}
			infos = append(infos, info)
		}

		writeJSON(w, http.StatusOK, dto.CapturesData{
			Captures:    infos,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}, logger)
	}
}

// ViewCaptureHandler serves any stored capture named by the "name" query parameter.
func ViewCaptureHandler(imagesDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Name parameter is required", http.StatusBadRequest)
			return
		}
		if _, err := storage.ParseCaptureName(name); err != nil || filepath.Base(name) != name {
			http.Error(w, "Invalid capture name", http.StatusBadRequest)
			return
		}

		filePath := filepath.Join(imagesDir, name)
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// GetSurveysHandler returns every survey record from the spreadsheet.
func GetSurveysHandler(logger *logger.Logger, surveys *storage.SurveyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := surveys.Records()
		if err != nil {
			logger.Error("Error reading survey file: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []model.SurveyRecord{}
		}
		writeJSON(w, http.StatusOK, records, logger)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseDate parses a date string in the format "2006-01-02" (HTML input format) in local time.
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
