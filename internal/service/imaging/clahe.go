//go:build gocv
// +build gocv

package imaging

import (
	"image"

	"gocv.io/x/gocv"
)

// CLAHEEnhancer applies the gamma LUT, then contrast limited adaptive histogram
// equalization on the L channel of LAB.
type CLAHEEnhancer struct {
	ClipLimit float64
	TileGrid  image.Point
}

func newCLAHEEnhancer() (Enhancer, error) {
	return &CLAHEEnhancer{ClipLimit: 3.0, TileGrid: image.Pt(8, 8)}, nil
}

// Enhance falls back to the gamma-only result if OpenCV rejects the frame.
func (e *CLAHEEnhancer) Enhance(img image.Image, gain float64) *image.RGBA {
	gamma := GammaEnhancer{}.Enhance(img, gain)

	mat, err := gocv.ImageToMatRGB(gamma)
	if err != nil || mat.Empty() {
		return gamma
	}
	defer mat.Close()

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(mat, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return gamma
	}

	clahe := gocv.NewCLAHEWithParams(e.ClipLimit, e.TileGrid)
	defer clahe.Close()

	lightness := gocv.NewMat()
	defer lightness.Close()
	clahe.Apply(channels[0], &lightness)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{lightness, channels[1], channels[2]}, &merged)

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(merged, &bgr, gocv.ColorLabToBGR)

	out, err := bgr.ToImage()
	if err != nil {
		return gamma
	}
	return ToRGBA(out)
}
