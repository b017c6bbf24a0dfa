package flow

import (
	"errors"

	"touristkiosk/internal/service/camera"
)

// Errors returned by Driver.Handle. The session step never changes when one is returned.
var (
	ErrCameraUnavailable = camera.ErrCameraUnavailable
	ErrMissingCapture    = errors.New("no captured photo yet, please take a photo first")
	ErrNoPerson          = errors.New("no person found in the photo")
	ErrConsentRequired   = errors.New("consent is required to submit the survey")
	ErrInvalidAnswers    = errors.New("invalid survey answers")
	ErrInvalidTransition = errors.New("action not allowed at this step")
)
