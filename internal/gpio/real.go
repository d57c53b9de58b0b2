//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealCapturer watches the DCF77 signal line on actual hardware using
// the Linux GPIO character device, and drives the module's
// power-enable output.
type RealCapturer struct {
	chip       *gpiocdev.Chip
	signalLine int
	signal     *gpiocdev.Line
	powerLine  *gpiocdev.Line
	handler    EdgeHandler
	bootOffset uint64 // boot monotonic clock offset, microseconds since Unix epoch
}

// NewRealCapturer opens the named GPIO chip and requests the
// power-enable output line. Signal watching starts on Start.
func NewRealCapturer(chipName string, signalLine, powerLine int) (*RealCapturer, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	pLine, err := chip.RequestLine(powerLine, gpiocdev.AsOutput(1))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request power-enable line %d: %w", powerLine, err)
	}

	return &RealCapturer{
		chip:       chip,
		signalLine: signalLine,
		powerLine:  pLine,
		// gpiocdev event timestamps run off an unspecified monotonic
		// epoch; only differences between them are ever used, so no
		// absolute offset is needed here beyond bookkeeping.
		bootOffset: uint64(time.Now().UnixMicro()),
	}, nil
}

// Start requests the signal line with both-edge detection and begins
// delivering timestamped levels to handler from the library's event
// goroutine.
func (c *RealCapturer) Start(handler EdgeHandler) error {
	c.handler = handler

	line, err := c.chip.RequestLine(c.signalLine,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(c.onEvent),
	)
	if err != nil {
		return fmt.Errorf("request signal line: %w", err)
	}
	c.signal = line
	return nil
}

func (c *RealCapturer) onEvent(evt gpiocdev.LineEvent) {
	var v uint8
	if evt.Type == gpiocdev.LineEventRisingEdge {
		v = 1
	}
	tUS := evt.Timestamp.Microseconds()
	c.handler(uint64(tUS), v)
}

// SetPowerEnable drives the active-low power-enable output: low (on) or
// high (off).
func (c *RealCapturer) SetPowerEnable(on bool) error {
	v := 1
	if on {
		v = 0
	}
	if err := c.powerLine.SetValue(v); err != nil {
		return fmt.Errorf("set power-enable: %w", err)
	}
	return nil
}

// Close releases GPIO resources.
func (c *RealCapturer) Close() error {
	var errs []error

	if c.signal != nil {
		if err := c.signal.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close signal line: %w", err))
		}
	}
	if c.powerLine != nil {
		if err := c.powerLine.SetValue(1); err != nil {
			errs = append(errs, fmt.Errorf("power down on close: %w", err))
		}
		if err := c.powerLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close power-enable line: %w", err))
		}
	}
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
