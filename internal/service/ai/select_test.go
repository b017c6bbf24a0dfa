package ai

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"touristkiosk/internal/dto"
)

func TestSelectPerson_FirstAboveThresholdWins(t *testing.T) {
	detections := []dto.DetectionResult{
		{Label: PersonLabel, Confidence: 0.3, X: 1},
		{Label: PersonLabel, Confidence: 0.6, X: 2},
		{Label: PersonLabel, Confidence: 0.8, X: 3},
	}

	got, ok := SelectPerson(detections, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.6, got.Confidence, 1e-9)
	assert.Equal(t, 2, got.X)
}

func TestSelectPerson_ThresholdIsExclusive(t *testing.T) {
	_, ok := SelectPerson([]dto.DetectionResult{{Confidence: 0.5}}, 0.5)
	assert.False(t, ok)
}

func TestSelectPerson_None(t *testing.T) {
	_, ok := SelectPerson(nil, 0.5)
	assert.False(t, ok)

	_, ok = SelectPerson([]dto.DetectionResult{{Confidence: 0.1}, {Confidence: 0.49}}, 0.5)
	assert.False(t, ok)
}

func TestRect(t *testing.T) {
	r := Rect(dto.DetectionResult{X: 10, Y: 20, Width: 30, Height: 40})
	assert.Equal(t, image.Rect(10, 20, 40, 60), r)
}
