package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for zero-sized input.
var ErrEmptyImage = errors.New("empty image")

// BoxColor is the outline drawn around the selected person.
var BoxColor = color.RGBA{G: 255, A: 255}

// Decode reads a JPEG, PNG, BMP or WebP frame.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// EncodeJPEG encodes img at quality 90.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ToRGBA copies img into a new RGBA image whose bounds start at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Crop copies the part of img inside r. r is clipped to the image first.
func Crop(img image.Image, r image.Rectangle) (*image.RGBA, error) {
	r = r.Add(img.Bounds().Min).Intersect(img.Bounds())
	if r.Empty() {
		return nil, ErrEmptyImage
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out, nil
}

// DrawBox outlines r on img with the given stroke thickness.
func DrawBox(img *image.RGBA, r image.Rectangle, c color.Color, thickness int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	fill := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(r), fill, image.Point{}, draw.Src)
	}
}

// MeanLuma returns the average Rec. 601 luma of img in [0, 255].
func MeanLuma(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 0
	}
	var sum float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			sum += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
		}
	}
	return sum / float64(b.Dx()*b.Dy())
}
