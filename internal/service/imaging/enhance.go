package imaging

import (
	"fmt"
	"image"
	"math"
)

// Gain bounds accepted by the brightness control.
const (
	MinGain     = 1.0
	MaxGain     = 3.0
	DefaultGain = 1.5
)

// Enhancer brightens a frame. The result always has the input's dimensions.
type Enhancer interface {
	Enhance(img image.Image, gain float64) *image.RGBA
}

// NewEnhancer returns the strategy registered under name ("gamma", "linear" or "clahe").
func NewEnhancer(name string) (Enhancer, error) {
	switch name {
	case "", "gamma":
		return GammaEnhancer{}, nil
	case "linear":
		return LinearEnhancer{}, nil
	case "clahe":
		return newCLAHEEnhancer()
	default:
		return nil, fmt.Errorf("unknown enhancer %q", name)
	}
}

// ClampGain forces gain into [MinGain, MaxGain]; NaN falls back to DefaultGain.
func ClampGain(gain float64) float64 {
	switch {
	case math.IsNaN(gain):
		return DefaultGain
	case gain < MinGain:
		return MinGain
	case gain > MaxGain:
		return MaxGain
	}
	return gain
}

// GammaEnhancer maps every channel through out = 255 * (in/255)^(1/gain).
// Gain 1.0 is the identity and larger gains brighten mid tones.
type GammaEnhancer struct{}

func (GammaEnhancer) Enhance(img image.Image, gain float64) *image.RGBA {
	return applyLUT(img, GammaLUT(gain))
}

// GammaLUT builds the 256 entry lookup table used by GammaEnhancer.
func GammaLUT(gain float64) [256]uint8 {
	var lut [256]uint8
	inv := 1.0 / ClampGain(gain)
	for i := range lut {
		lut[i] = uint8(math.Round(math.Pow(float64(i)/255.0, inv) * 255.0))
	}
	return lut
}

// LinearEnhancer multiplies every channel by gain, saturating at 255.
type LinearEnhancer struct{}

func (LinearEnhancer) Enhance(img image.Image, gain float64) *image.RGBA {
	var lut [256]uint8
	g := ClampGain(gain)
	for i := range lut {
		lut[i] = uint8(math.Min(255, math.Round(float64(i)*g)))
	}
	return applyLUT(img, lut)
}

func applyLUT(img image.Image, lut [256]uint8) *image.RGBA {
	out := ToRGBA(img)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = lut[out.Pix[i]]
		out.Pix[i+1] = lut[out.Pix[i+1]]
		out.Pix[i+2] = lut[out.Pix[i+2]]
	}
	return out
}
