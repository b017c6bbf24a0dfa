package model

import "time"

// Capture represents a stored person crop.
type Capture struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	FilePath  string    `json:"filepath"`
	FileSize  int64     `json:"filesize"`
}

// Detection represents the person box a capture was cropped from.
type Detection struct {
	ID         int64   `json:"id"`
	CaptureID  int64   `json:"capture_id"`
	Label      string  `json:"label"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// CaptureFilter contains filtering options for querying captures.
type CaptureFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}
