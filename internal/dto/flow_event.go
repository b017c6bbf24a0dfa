package dto

import "time"

// Kinds of flow notifications pushed to attendant monitors.
const (
	EventStep      = "step"
	EventCapture   = "capture"
	EventSubmitted = "submitted"
)

// FlowEvent is broadcast to monitor pages whenever a kiosk session changes.
type FlowEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	Step      string    `json:"step"`
	ImagePath string    `json:"imagePath,omitempty"`
	RecordID  string    `json:"recordId,omitempty"`
	Time      time.Time `json:"time"`
}
