package session

import "context"

// Capture is the boundary to the physical capture device. When Acquire
// fails with ErrCaptureUnavailable the session still runs; the kiosk shows a
// placeholder feed and the snapshot reports CaptureLive=false.
type Capture interface {
	// Acquire claims the device for the duration of a recording.
	Acquire(ctx context.Context) error
	// Release returns the device after recording ends or is cancelled.
	Release()
}

// nopCapture always reports a live feed. It is the default when no real
// device is wired in.
type nopCapture struct{}

func (nopCapture) Acquire(context.Context) error { return nil }
func (nopCapture) Release()                      {}

// NewNopCapture returns a Capture that always succeeds.
func NewNopCapture() Capture { return nopCapture{} }

// unavailableCapture always fails to acquire, forcing placeholder mode.
type unavailableCapture struct{}

func (unavailableCapture) Acquire(context.Context) error { return ErrCaptureUnavailable }
func (unavailableCapture) Release()                      {}

// NewUnavailableCapture returns a Capture that never provides a feed.
// Useful for kiosks deployed without a camera.
func NewUnavailableCapture() Capture { return unavailableCapture{} }
