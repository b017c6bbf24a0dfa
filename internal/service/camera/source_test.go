package camera

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSource(t *testing.T) {
	frame, err := StaticSource{Frame: []byte{0xFF, 0xD8}}.Grab(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, frame)

	_, err = StaticSource{}.Grab(context.Background())
	assert.ErrorIs(t, err, ErrCameraUnavailable)
}
