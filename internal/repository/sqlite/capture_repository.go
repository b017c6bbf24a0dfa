package sqlite

import (
	"database/sql"
	"fmt"

	"touristkiosk/internal/model"
	"touristkiosk/internal/repository"
)

// CaptureRepository implements repository.CaptureRepository for SQLite.
type CaptureRepository struct {
	db *DB
}

// NewCaptureRepository creates a new SQLite capture repository.
func NewCaptureRepository(db *DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

// Insert adds a new capture record to the database.
func (r *CaptureRepository) Insert(c *model.Capture) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO captures (filename, timestamp, filepath, filesize)
		VALUES (?, ?, ?, ?)
	`, c.Filename, c.Timestamp, c.FilePath, c.FileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to insert capture: %w", err)
	}

	return result.LastInsertId()
}

// GetByFilename retrieves a capture by its filename. A missing capture is (nil, nil).
func (r *CaptureRepository) GetByFilename(filename string) (*model.Capture, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var c model.Capture
	err := r.db.Conn().QueryRow(`
		SELECT id, filename, timestamp, filepath, filesize
		FROM captures WHERE filename = ?
	`, filename).Scan(&c.ID, &c.Filename, &c.Timestamp, &c.FilePath, &c.FileSize)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}
	return &c, nil
}

// GetAll retrieves captures based on filter criteria, newest first.
func (r *CaptureRepository) GetAll(filter *model.CaptureFilter) ([]model.Capture, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := whereClause(filter)
	query := `SELECT id, filename, timestamp, filepath, filesize FROM captures` + where + ` ORDER BY timestamp DESC`

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	var captures []model.Capture
	for rows.Next() {
		var c model.Capture
		if err := rows.Scan(&c.ID, &c.Filename, &c.Timestamp, &c.FilePath, &c.FileSize); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		captures = append(captures, c)
	}

	return captures, rows.Err()
}

// GetTotalCount returns the total count of captures matching the filter.
func (r *CaptureRepository) GetTotalCount(filter *model.CaptureFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := whereClause(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM captures`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}

	return count, nil
}

// Exists checks if a capture with the given filename exists.
func (r *CaptureRepository) Exists(filename string) (bool, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM captures WHERE filename = ?`, filename).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check capture existence: %w", err)
	}
	return count > 0, nil
}

func whereClause(filter *model.CaptureFilter) (string, []interface{}) {
	query := " WHERE 1=1"
	args := []interface{}{}
	if filter == nil {
		return query, args
	}

	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}

	if !filter.EndDate.IsZero() {
		query += " AND timestamp < ?"
		args = append(args, filter.EndDate)
	}

	return query, args
}

var _ repository.CaptureRepository = (*CaptureRepository)(nil)
