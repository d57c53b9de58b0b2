//go:build !linux

package gpio

import "errors"

// RealCapturer is not available on non-Linux platforms.
type RealCapturer struct{}

// NewRealCapturer returns an error on non-Linux platforms.
func NewRealCapturer(chipName string, signalLine, powerLine int) (*RealCapturer, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Start is not implemented on non-Linux platforms.
func (c *RealCapturer) Start(handler EdgeHandler) error {
	return errors.New("gpio: not supported")
}

// SetPowerEnable is not implemented on non-Linux platforms.
func (c *RealCapturer) SetPowerEnable(on bool) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (c *RealCapturer) Close() error {
	return nil
}
