//go:build !gocv
// +build !gocv

package camera

import (
	"context"
	"fmt"
)

// DeviceSource is unavailable without the gocv build tag.
type DeviceSource struct {
	Device int
}

// NewDeviceSource returns a source that always fails; frames must be uploaded by the browser.
func NewDeviceSource(device int) *DeviceSource {
	return &DeviceSource{Device: device}
}

func (s *DeviceSource) Grab(ctx context.Context) ([]byte, error) {
	_ = ctx
	return nil, fmt.Errorf("%w: gocv build tag is not enabled", ErrCameraUnavailable)
}
