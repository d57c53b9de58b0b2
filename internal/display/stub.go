//go:build !tinygo

package display

import "errors"

// OLEDDisplay is not available outside TinyGo builds.
type OLEDDisplay struct{}

// NewOLEDDisplay returns an error on non-TinyGo builds.
func NewOLEDDisplay() (*OLEDDisplay, error) {
	return nil, errors.New("display: not supported on this build (requires tinygo)")
}

// WriteLines is not implemented outside TinyGo builds.
func (o *OLEDDisplay) WriteLines(line1, line2, line3 string) error {
	return errors.New("display: not supported")
}

// Close is not implemented outside TinyGo builds.
func (o *OLEDDisplay) Close() error {
	return nil
}
