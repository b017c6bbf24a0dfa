package imaging

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(flatGray(32, 24, 100))
	require.NoError(t, err)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 24), img.Bounds())
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestCrop(t *testing.T) {
	src := flatGray(100, 80, 10)

	out, err := Crop(src, image.Rect(10, 20, 40, 60))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 40), out.Bounds())

	// Boxes reaching past the frame are clipped.
	out, err = Crop(src, image.Rect(90, 70, 150, 120))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds())

	_, err = Crop(src, image.Rect(200, 200, 300, 300))
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestDrawBox(t *testing.T) {
	img := flatGray(20, 20, 0)
	DrawBox(img, image.Rect(5, 5, 15, 15), BoxColor, 2)

	assert.Equal(t, BoxColor, img.RGBAAt(5, 5))
	assert.Equal(t, BoxColor, img.RGBAAt(14, 10))
	assert.Equal(t, BoxColor, img.RGBAAt(10, 6))
	// Inside and outside stay untouched.
	assert.Equal(t, uint8(0), img.RGBAAt(10, 10).G)
	assert.Equal(t, uint8(0), img.RGBAAt(2, 2).G)
}
