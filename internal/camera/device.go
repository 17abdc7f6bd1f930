package camera

import (
	"errors"
	"time"
)

// ErrDeviceClosed is returned by Read after Close, or when the capture
// pipeline shut down underneath the reader.
var ErrDeviceClosed = errors.New("camera: device closed")

// ErrReadTimeout is returned when no frame arrived within the read
// deadline. Usually a transient stall; the source treats it as a read
// failure and reconnects.
var ErrReadTimeout = errors.New("camera: frame read timed out")

// Device is one opened capture device. Implementations must be safe to
// Close from a goroutine other than the reader.
type Device interface {
	// Read blocks until the next frame arrives or the timeout expires.
	Read(timeout time.Duration) (Frame, error)
	Close() error
}

// OpenFunc opens a capture device. The source calls it again for every
// reconnect attempt, so implementations must build a fresh device each
// time.
type OpenFunc func() (Device, error)
