// Package gpio provides DCF77 signal-edge capture with hardware
// abstraction. The real implementation watches a Linux GPIO character
// device line for both-edge transitions and timestamps them with a
// monotonic clock, standing in for the receiver's edge interrupt. The
// fake implementation replays a scripted edge sequence for tests.
package gpio

// EdgeHandler is called for every captured transition on the signal
// line. t is a monotonic microsecond timestamp, v is the new level
// (0 or 1). It is invoked from whatever goroutine services edge
// events and must not block.
type EdgeHandler func(t uint64, v uint8)

// Capturer watches a signal line for edges and controls the
// receiver's power-enable line.
type Capturer interface {
	// Start begins delivering edges to handler. It returns once the
	// watch is established; delivery continues on a background
	// goroutine until Close.
	Start(handler EdgeHandler) error

	// SetPowerEnable drives the receiver module's power-enable output.
	SetPowerEnable(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Line offsets (BCM numbering on a Raspberry Pi header).
const (
	LineSignal      = 27 // DCF77 module data output
	LinePowerEnable = 17 // DCF77 module power enable
)
