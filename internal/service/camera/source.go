package camera

import (
	"context"
	"errors"
)

// ErrCameraUnavailable is returned when no frame could be read.
var ErrCameraUnavailable = errors.New("camera unavailable")

// FrameSource returns one encoded frame per call. Calls block until the
// device answers; there is no retry.
type FrameSource interface {
	Grab(ctx context.Context) ([]byte, error)
}

// StaticSource always returns the same frame. Used for kiosks fed by a file
// and in tests.
type StaticSource struct {
	Frame []byte
}

func (s StaticSource) Grab(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.Frame) == 0 {
		return nil, ErrCameraUnavailable
	}
	return s.Frame, nil
}
