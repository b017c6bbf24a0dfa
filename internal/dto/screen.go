package dto

import "touristkiosk/internal/model"

// Screen describes what the kiosk page should render after an event.
type Screen struct {
	Step        model.Step       `json:"step"`
	Title       string           `json:"title"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
	Preview     string           `json:"preview,omitempty"` // base64 JPEG with the person box drawn
	PersonFound bool             `json:"personFound"`
	Detection   *DetectionResult `json:"detection,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Form        *SurveyForm      `json:"form,omitempty"`
}

// SurveyForm lists the choices and the classifier's suggested defaults.
type SurveyForm struct {
	Defaults   model.Attributes `json:"defaults"`
	Age        []string         `json:"age"`
	Gender     []string         `json:"gender"`
	Glasses    []string         `json:"glasses"`
	UpperWear  []string         `json:"upperWear"`
	LowerWear  []string         `json:"lowerWear"`
	Activities []string         `json:"activities"`
}

// SurveyAnswers is the submitted form.
type SurveyAnswers struct {
	Attributes model.Attributes `json:"attributes"`
	Activities []string         `json:"activities" validate:"dive,oneof=美食/品嚐 觀光景點 遊樂/娛樂 購物 其他"`
	Consent    bool             `json:"consent"`
}
