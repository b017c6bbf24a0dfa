package dto

import (
	"encoding/json"
	"time"
)

// CaptureInfo represents a stored capture as shown in the admin gallery.
type CaptureInfo struct {
	Name       string    `json:"name"`
	Date       time.Time `json:"date"`
	TimeOfDay  time.Time `json:"timeOfDay"`
	Confidence float64   `json:"confidence"`
}

// MarshalJSON customizes JSON output for CaptureInfo to format date and time-of-day.
func (c CaptureInfo) MarshalJSON() ([]byte, error) {
	type Alias CaptureInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      c.Date.Format("02-01-2006"),
		TimeOfDay: c.TimeOfDay.Format("15:04:05"),
		Alias:     (Alias)(c),
	})
}
