package model

import "image"

// Step is the screen a kiosk session is currently on.
type Step string

const (
	StepCapture  Step = "capture"   // Live preview and photo confirmation
	StepSurvey   Step = "survey"    // Attribute confirmation form
	StepThankYou Step = "thank_you" // Submission acknowledged
)

// PendingCapture is the person found by the most recent preview, not yet saved.
type PendingCapture struct {
	Crop      image.Image
	Detection Detection
}

// Session is the per-visitor context handed to every flow handler.
type Session struct {
	ID                string
	Step              Step
	CapturedImagePath string
	Pending           *PendingCapture
	Suggested         *Attributes
}

// NewSession creates a session at the capture step.
func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Step: StepCapture,
	}
}

// Reset discards everything the previous visitor left behind.
func (s *Session) Reset() {
	*s = Session{ID: s.ID, Step: StepCapture}
}
