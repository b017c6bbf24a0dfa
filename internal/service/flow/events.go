package flow

import "touristkiosk/internal/dto"

// Event is a visitor action fed to the Driver.
type Event interface {
	Name() string
}

// Preview grabs a frame, brightens it by Gain and looks for a person.
// A non-empty Frame is used instead of the camera.
type Preview struct {
	Gain  float64
	Frame []byte
}

// ConfirmCapture saves the person found by the last Preview and opens the survey.
type ConfirmCapture struct{}

// EnterSurvey opens the survey for an already saved capture.
type EnterSurvey struct{}

// SubmitSurvey stores the visitor's answers.
type SubmitSurvey struct {
	Answers dto.SurveyAnswers
}

// NextVisitor clears the session for the next person.
type NextVisitor struct{}

// Render redraws the current screen.
type Render struct{}

func (Preview) Name() string        { return "preview" }
func (ConfirmCapture) Name() string { return "confirm_capture" }
func (EnterSurvey) Name() string    { return "enter_survey" }
func (SubmitSurvey) Name() string   { return "submit_survey" }
func (NextVisitor) Name() string    { return "next_visitor" }
func (Render) Name() string         { return "render" }
