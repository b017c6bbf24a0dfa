//go:build gocv
// +build gocv

package camera

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// DeviceSource opens the local capture device for every grab and releases it
// right after, so the camera is free between visitors.
type DeviceSource struct {
	Device int
}

// NewDeviceSource returns a source reading from the given device index.
func NewDeviceSource(device int) *DeviceSource {
	return &DeviceSource{Device: device}
}

func (s *DeviceSource) Grab(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	capture, err := gocv.OpenVideoCapture(s.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: open device %d: %v", ErrCameraUnavailable, s.Device, err)
	}
	defer capture.Close()

	frame := gocv.NewMat()
	defer frame.Close()
	if ok := capture.Read(&frame); !ok || frame.Empty() {
		return nil, fmt.Errorf("%w: device %d returned no frame", ErrCameraUnavailable, s.Device)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
