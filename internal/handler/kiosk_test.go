package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touristkiosk/internal/config"
	"touristkiosk/internal/dto"
	"touristkiosk/internal/logger"
	"touristkiosk/internal/model"
	"touristkiosk/internal/service/ai"
	"touristkiosk/internal/service/camera"
	"touristkiosk/internal/service/flow"
	"touristkiosk/internal/service/imaging"
	"touristkiosk/internal/service/storage"
)

type stubDetector struct {
	boxes []dto.DetectionResult
}

func (d *stubDetector) DetectObjects([]byte) ([]dto.DetectionResult, error) {
	return d.boxes, nil
}

func jpegFrame(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 120
	}
	img.Set(0, 0, color.RGBA{A: 255})
	data, err := imaging.EncodeJPEG(img)
	require.NoError(t, err)
	return data
}

type kioskFixture struct {
	kiosk    *Kiosk
	detector *stubDetector
	surveys  *storage.SurveyStore
	cookies  []*http.Cookie
}

func newKioskFixture(t *testing.T) *kioskFixture {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{DataRoot: root, DefaultGain: 1.5}
	det := &stubDetector{boxes: []dto.DetectionResult{
		{Label: ai.PersonLabel, Confidence: 0.8, X: 5, Y: 5, Width: 20, Height: 30},
	}}
	surveys := storage.NewSurveyStore(cfg.SurveyFile())

	driver := flow.NewDriver(flow.Dependencies{
		Source:     camera.StaticSource{Frame: jpegFrame(t)},
		Enhancer:   imaging.GammaEnhancer{},
		Detector:   det,
		Classifier: ai.NewSeededClassifier(1),
		Captures:   storage.NewCaptureService(cfg.ImageDirectory(), logger.NewNop(), nil, nil),
		Surveys:    surveys,
	}, 0.5, cfg.DefaultGain)

	return &kioskFixture{
		kiosk: &Kiosk{
			Driver:   driver,
			Sessions: flow.NewSessionRepository(),
			Config:   cfg,
			Logger:   logger.NewNop(),
		},
		detector: det,
		surveys:  surveys,
	}
}

// do sends req through h, carrying the session cookie across calls.
func (f *kioskFixture) do(t *testing.T, h http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, dto.Screen) {
	t.Helper()
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		f.cookies = cookies
	}

	var screen dto.Screen
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &screen))
	}
	return rec, screen
}

func previewRequest(gain string) *http.Request {
	form := url.Values{"gain": {gain}}
	req := httptest.NewRequest(http.MethodPost, "/api/capture/preview", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func submitRequest(t *testing.T, answers dto.SurveyAnswers) *http.Request {
	t.Helper()
	body, err := json.Marshal(answers)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/survey/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestKiosk_StateIssuesSessionCookie(t *testing.T) {
	f := newKioskFixture(t)

	rec, screen := f.do(t, f.kiosk.StateHandler(), httptest.NewRequest(http.MethodGet, "/api/state", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StepCapture, screen.Step)
	require.Len(t, f.cookies, 1)
	assert.Equal(t, SessionCookie, f.cookies[0].Name)

	// Same cookie, same session: no new cookie issued.
	rec, _ = f.do(t, f.kiosk.StateHandler(), httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, f.kiosk.Sessions.Count())
}

func TestKiosk_SurveyWithoutCaptureConflicts(t *testing.T) {
	f := newKioskFixture(t)

	rec, screen := f.do(t, f.kiosk.SurveyHandler(), httptest.NewRequest(http.MethodGet, "/api/survey", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, model.StepCapture, screen.Step)
	assert.NotEmpty(t, screen.Error)
}

func TestKiosk_FullVisit(t *testing.T) {
	f := newKioskFixture(t)

	rec, screen := f.do(t, f.kiosk.PreviewHandler(), previewRequest("2.0"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, screen.PersonFound)
	assert.NotEmpty(t, screen.Preview)

	rec, screen = f.do(t, f.kiosk.ConfirmHandler(), httptest.NewRequest(http.MethodPost, "/api/capture/confirm", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StepSurvey, screen.Step)
	require.NotNil(t, screen.Form)
	assert.Contains(t, model.AgeOptions, screen.Form.Defaults.Age)

	// The visitor can view their own photo.
	imgURL, err := url.Parse(screen.ImageURL)
	require.NoError(t, err)
	rec, _ = f.do(t, f.kiosk.CaptureImageHandler(), httptest.NewRequest(http.MethodGet, screen.ImageURL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(imgURL.Query().Get("name"), "person_"))

	answers := dto.SurveyAnswers{
		Attributes: model.Attributes{Age: "Teen", Gender: "Male", Glasses: "No", UpperWear: "T-shirt", LowerWear: "Shorts"},
		Activities: []string{"美食/品嚐"},
	}
	rec, screen = f.do(t, f.kiosk.SubmitHandler(), submitRequest(t, answers))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.StepSurvey, screen.Step)

	answers.Consent = true
	rec, screen = f.do(t, f.kiosk.SubmitHandler(), submitRequest(t, answers))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StepThankYou, screen.Step)

	records, err := f.surveys.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Teen", records[0].Attributes.Age)
	assert.Equal(t, "美食/品嚐", records[0].Activities)

	rec, screen = f.do(t, f.kiosk.NextHandler(), httptest.NewRequest(http.MethodPost, "/api/next", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StepCapture, screen.Step)

	// The previous visitor's photo is no longer reachable from this session.
	rec, _ = f.do(t, f.kiosk.CaptureImageHandler(), httptest.NewRequest(http.MethodGet, imgURL.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestKiosk_PreviewWithUploadedFrame(t *testing.T) {
	f := newKioskFixture(t)
	f.kiosk.Driver = flow.NewDriver(flow.Dependencies{
		Enhancer:   imaging.LinearEnhancer{},
		Detector:   f.detector,
		Classifier: ai.NewSeededClassifier(1),
		Captures:   storage.NewCaptureService(filepath.Join(t.TempDir(), "images"), logger.NewNop(), nil, nil),
		Surveys:    f.surveys,
	}, 0.5, 1.5)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("gain", "1.2"))
	part, err := mw.CreateFormFile("frame", "frame.jpg")
	require.NoError(t, err)
	_, err = part.Write(jpegFrame(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/capture/preview", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec, screen := f.do(t, f.kiosk.PreviewHandler(), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, screen.PersonFound)

	// Without an upload and without a camera the preview fails.
	rec, screen = f.do(t, f.kiosk.PreviewHandler(), previewRequest("1.2"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Camera unavailable", screen.Error)
}

func TestKiosk_NoPersonConfirmRejected(t *testing.T) {
	f := newKioskFixture(t)
	f.detector.boxes = nil

	rec, screen := f.do(t, f.kiosk.PreviewHandler(), previewRequest("1.5"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, screen.PersonFound)

	rec, screen = f.do(t, f.kiosk.ConfirmHandler(), httptest.NewRequest(http.MethodPost, "/api/capture/confirm", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, model.StepCapture, screen.Step)
}

func TestKiosk_SubmitInvalidJSON(t *testing.T) {
	f := newKioskFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/survey/submit", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	f.kiosk.SubmitHandler()(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKiosk_CaptureImageRequiresName(t *testing.T) {
	f := newKioskFixture(t)

	rec := httptest.NewRecorder()
	f.kiosk.CaptureImageHandler()(rec, httptest.NewRequest(http.MethodGet, "/api/captures/image", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{flow.ErrCameraUnavailable, http.StatusServiceUnavailable},
		{ai.ErrDetectorUnavailable, http.StatusServiceUnavailable},
		{flow.ErrMissingCapture, http.StatusConflict},
		{flow.ErrInvalidTransition, http.StatusConflict},
		{flow.ErrNoPerson, http.StatusUnprocessableEntity},
		{flow.ErrConsentRequired, http.StatusUnprocessableEntity},
		{flow.ErrInvalidAnswers, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), "%v", tt.err)
	}
}

func TestParseGain(t *testing.T) {
	assert.Equal(t, 1.5, parseGain("", 1.5))
	assert.Equal(t, 1.5, parseGain("bright", 1.5))
	assert.Equal(t, 2.25, parseGain("2.25", 1.5))
	assert.Equal(t, imaging.MaxGain, parseGain("9", 1.5))
	assert.Equal(t, imaging.MinGain, parseGain("0.1", 1.5))
}
