package sqlite

import (
	"fmt"

	"touristkiosk/internal/model"
	"touristkiosk/internal/repository"
)

// DetectionRepository implements repository.DetectionRepository for SQLite.
type DetectionRepository struct {
	db *DB
}

// NewDetectionRepository creates a new SQLite detection repository.
func NewDetectionRepository(db *DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// Insert adds a new detection record to the database.
func (r *DetectionRepository) Insert(det *model.Detection) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO detections (capture_id, label, x, y, width, height, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, det.CaptureID, det.Label, det.X, det.Y, det.Width, det.Height, det.Confidence)
	if err != nil {
		return 0, fmt.Errorf("failed to insert detection: %w", err)
	}

	return result.LastInsertId()
}

// GetByCaptureID retrieves the detections stored for a capture.
func (r *DetectionRepository) GetByCaptureID(captureID int64) ([]model.Detection, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, capture_id, label, x, y, width, height, confidence
		FROM detections WHERE capture_id = ? ORDER BY id
	`, captureID)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []model.Detection
	for rows.Next() {
		var det model.Detection
		if err := rows.Scan(&det.ID, &det.CaptureID, &det.Label, &det.X, &det.Y, &det.Width, &det.Height, &det.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, det)
	}

	return detections, rows.Err()
}

var _ repository.DetectionRepository = (*DetectionRepository)(nil)
