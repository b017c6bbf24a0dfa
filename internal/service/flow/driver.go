package flow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/model"
	"touristkiosk/internal/service/ai"
	"touristkiosk/internal/service/camera"
	"touristkiosk/internal/service/imaging"
)

// CaptureSaver persists a confirmed person crop and returns its path.
type CaptureSaver interface {
	SaveCapture(crop image.Image, det dto.DetectionResult) (string, error)
}

// RecordAppender persists a submitted survey.
type RecordAppender interface {
	Append(record model.SurveyRecord) error
}

// Notifier receives a copy of every session change.
type Notifier interface {
	Notify(event dto.FlowEvent)
}

// CaptureImagePath is the URL the kiosk page loads the saved capture from.
const CaptureImagePath = "/api/captures/image"

const boxThickness = 3

// Dependencies groups what the Driver calls out to. Source and Notifier may be nil.
type Dependencies struct {
	Source     camera.FrameSource
	Enhancer   imaging.Enhancer
	Detector   ai.ObjectDetector
	Classifier ai.AttributeClassifier
	Captures   CaptureSaver
	Surveys    RecordAppender
	Notifier   Notifier
	Logger     *logger.Logger
}

// Driver moves kiosk sessions through capture, survey and thank-you.
// Events are handled one at a time.
type Driver struct {
	mu          sync.Mutex
	deps        Dependencies
	threshold   float64
	defaultGain float64
	validate    *validator.Validate
	now         func() time.Time
}

func NewDriver(deps Dependencies, threshold, defaultGain float64) *Driver {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Driver{
		deps:        deps,
		threshold:   threshold,
		defaultGain: imaging.ClampGain(defaultGain),
		validate:    validator.New(),
		now:         time.Now,
	}
}

// WithClock replaces the time source used for record IDs and timestamps.
func (d *Driver) WithClock(now func() time.Time) *Driver {
	d.now = now
	return d
}

// Handle applies ev to s and returns the screen to show next. On error the
// screen shows the current step with the error message and s.Step is unchanged.
func (d *Driver) Handle(ctx context.Context, s *model.Session, ev Event) (*dto.Screen, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	from := s.Step
	screen, err := d.dispatch(ctx, s, ev)
	if err != nil {
		d.deps.Logger.Warning("Session %s: %s at step %s failed: %v", s.ID, ev.Name(), from, err)
		screen = d.screen(s)
		screen.Error = Message(err)
		return screen, err
	}

	if s.Step != from {
		d.deps.Logger.Info("Session %s: %s -> %s", s.ID, from, s.Step)
	}
	return screen, nil
}

// CapturedImage returns the path of the photo saved for s, or "" if none.
func (d *Driver) CapturedImage(s *model.Session) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return s.CapturedImagePath
}

func (d *Driver) dispatch(ctx context.Context, s *model.Session, ev Event) (*dto.Screen, error) {
	switch e := ev.(type) {
	case Render:
		return d.screen(s), nil

	case Preview:
		if s.Step != model.StepCapture {
			return nil, ErrInvalidTransition
		}
		return d.preview(ctx, s, e)

	case ConfirmCapture:
		if s.Step != model.StepCapture {
			return nil, ErrInvalidTransition
		}
		return d.confirm(ctx, s)

	case EnterSurvey:
		if s.Step != model.StepCapture && s.Step != model.StepSurvey {
			return nil, ErrInvalidTransition
		}
		if err := d.enterSurvey(ctx, s, nil); err != nil {
			return nil, err
		}
		return d.screen(s), nil

	case SubmitSurvey:
		if s.Step != model.StepSurvey {
			return nil, ErrInvalidTransition
		}
		return d.submit(s, e.Answers)

	case NextVisitor:
		if s.Step != model.StepThankYou {
			return nil, ErrInvalidTransition
		}
		s.Reset()
		d.notify(dto.FlowEvent{Type: dto.EventStep, SessionID: s.ID, Step: string(s.Step)})
		return d.screen(s), nil
	}

	return nil, ErrInvalidTransition
}

func (d *Driver) preview(ctx context.Context, s *model.Session, e Preview) (*dto.Screen, error) {
	// A failed preview leaves nothing to confirm.
	s.Pending = nil

	frame := e.Frame
	if len(frame) == 0 {
		if d.deps.Source == nil {
			return nil, ErrCameraUnavailable
		}
		var err error
		frame, err = d.deps.Source.Grab(ctx)
		if err != nil {
			if errors.Is(err, ErrCameraUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
		}
	}

	img, err := imaging.Decode(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	gain := e.Gain
	if gain == 0 {
		gain = d.defaultGain
	}
	enhanced := d.deps.Enhancer.Enhance(img, imaging.ClampGain(gain))

	encoded, err := imaging.EncodeJPEG(enhanced)
	if err != nil {
		return nil, err
	}
	detections, err := d.deps.Detector.DetectObjects(encoded)
	if err != nil {
		return nil, err
	}

	screen := d.screen(s)

	person, found := ai.SelectPerson(detections, d.threshold)
	var crop *image.RGBA
	if found {
		crop, err = imaging.Crop(enhanced, ai.Rect(person))
		if err != nil {
			found = false
		}
	}

	annotated := enhanced
	if found {
		s.Pending = &model.PendingCapture{
			Crop: crop,
			Detection: model.Detection{
				Label:      person.Label,
				X:          person.X,
				Y:          person.Y,
				Width:      person.Width,
				Height:     person.Height,
				Confidence: person.Confidence,
			},
		}
		annotated = imaging.ToRGBA(enhanced)
		imaging.DrawBox(annotated, ai.Rect(person), imaging.BoxColor, boxThickness)

		screen.PersonFound = true
		screen.Detection = &person
		screen.Message = fmt.Sprintf("Person found (confidence %.0f%%). Take the photo when ready.", person.Confidence*100)
	} else {
		screen.Message = "No person found. Please step in front of the camera."
	}

	preview, err := imaging.EncodeJPEG(annotated)
	if err != nil {
		return nil, err
	}
	screen.Preview = base64.StdEncoding.EncodeToString(preview)
	return screen, nil
}

func (d *Driver) confirm(ctx context.Context, s *model.Session) (*dto.Screen, error) {
	if s.Pending == nil {
		return nil, ErrNoPerson
	}

	det := s.Pending.Detection
	path, err := d.deps.Captures.SaveCapture(s.Pending.Crop, dto.DetectionResult{
		Label:      det.Label,
		Confidence: det.Confidence,
		X:          det.X,
		Y:          det.Y,
		Width:      det.Width,
		Height:     det.Height,
	})
	if err != nil {
		return nil, eris.Wrap(err, "save capture")
	}

	crop := s.Pending.Crop
	s.CapturedImagePath = path
	s.Pending = nil
	s.Suggested = nil
	d.notify(dto.FlowEvent{Type: dto.EventCapture, SessionID: s.ID, Step: string(s.Step), ImagePath: path})

	if err := d.enterSurvey(ctx, s, crop); err != nil {
		return nil, err
	}
	return d.screen(s), nil
}

// enterSurvey moves s to the survey step. img is the capture if the caller
// still has it in memory; otherwise it is read back from disk.
func (d *Driver) enterSurvey(ctx context.Context, s *model.Session, img image.Image) error {
	if s.CapturedImagePath == "" {
		return ErrMissingCapture
	}

	if s.Suggested == nil {
		if img == nil {
			data, err := os.ReadFile(s.CapturedImagePath)
			if err != nil {
				return eris.Wrap(err, "read capture")
			}
			if img, err = imaging.Decode(data); err != nil {
				return eris.Wrap(err, "decode capture")
			}
		}
		attrs, err := d.deps.Classifier.Classify(ctx, img)
		if err != nil {
			return eris.Wrap(err, "classify capture")
		}
		s.Suggested = &attrs
	}

	if s.Step != model.StepSurvey {
		s.Step = model.StepSurvey
		d.notify(dto.FlowEvent{Type: dto.EventStep, SessionID: s.ID, Step: string(s.Step), ImagePath: s.CapturedImagePath})
	}
	return nil
}

func (d *Driver) submit(s *model.Session, answers dto.SurveyAnswers) (*dto.Screen, error) {
	if !answers.Consent {
		return nil, ErrConsentRequired
	}
	if err := d.validate.Struct(answers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}

	now := d.now()
	record := model.SurveyRecord{
		ID:         model.RecordID(now),
		Attributes: answers.Attributes,
		Activities: strings.Join(answers.Activities, ", "),
		ImagePath:  s.CapturedImagePath,
		Timestamp:  now,
	}
	if err := d.deps.Surveys.Append(record); err != nil {
		return nil, eris.Wrap(err, "save survey")
	}

	d.deps.Logger.Info("Session %s: stored survey %s", s.ID, record.ID)
	s.Step = model.StepThankYou
	d.notify(dto.FlowEvent{Type: dto.EventSubmitted, SessionID: s.ID, Step: string(s.Step), ImagePath: record.ImagePath, RecordID: record.ID})

	screen := d.screen(s)
	screen.Message = fmt.Sprintf("Your answers were saved as %s.", record.ID)
	return screen, nil
}

func (d *Driver) notify(event dto.FlowEvent) {
	if d.deps.Notifier == nil {
		return
	}
	event.Time = d.now()
	d.deps.Notifier.Notify(event)
}

// screen describes the current step without any event-specific details.
func (d *Driver) screen(s *model.Session) *dto.Screen {
	switch s.Step {
	case model.StepSurvey:
		form := &dto.SurveyForm{
			Age:        model.AgeOptions,
			Gender:     model.GenderOptions,
			Glasses:    model.GlassesOptions,
			UpperWear:  model.UpperWearOptions,
			LowerWear:  model.LowerWearOptions,
			Activities: model.ActivityOptions,
		}
		if s.Suggested != nil {
			form.Defaults = *s.Suggested
		}
		screen := &dto.Screen{
			Step:    s.Step,
			Title:   "Tell us about your visit",
			Message: "Please check the details below and correct anything we got wrong.",
			Form:    form,
		}
		if s.CapturedImagePath != "" {
			screen.ImageURL = CaptureImagePath + "?name=" + filepath.Base(s.CapturedImagePath)
		}
		return screen

	case model.StepThankYou:
		return &dto.Screen{
			Step:    s.Step,
			Title:   "Thank you!",
			Message: "Enjoy the rest of your trip.",
		}
	}

	screen := &dto.Screen{
		Step:    model.StepCapture,
		Title:   "Visitor photo",
		Message: "Adjust the brightness, then take your photo.",
	}
	if s.Pending != nil {
		det := s.Pending.Detection
		screen.PersonFound = true
		screen.Detection = &dto.DetectionResult{
			Label:      det.Label,
			Confidence: det.Confidence,
			X:          det.X,
			Y:          det.Y,
			Width:      det.Width,
			Height:     det.Height,
		}
	}
	return screen
}

// Message converts a Handle error into text for the visitor.
func Message(err error) string {
	for _, known := range []error{
		ErrCameraUnavailable, ErrMissingCapture, ErrNoPerson,
		ErrConsentRequired, ErrInvalidTransition, ai.ErrDetectorUnavailable,
	} {
		if errors.Is(err, known) {
			return capitalize(known.Error())
		}
	}
	if errors.Is(err, ErrInvalidAnswers) {
		return "Please choose one of the offered answers for every question."
	}
	return "Something went wrong while saving. Please ask staff for help."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
