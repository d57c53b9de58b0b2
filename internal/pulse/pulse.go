// Package pulse reconstructs low-phase pulses and the rising-edge sequence
// from a time-ordered edge window, and classifies each pulse's duration
// against the DCF77-class bit timing bands.
package pulse

import "github.com/mlund/dcf77clock/internal/ring"

// Timing bands, in microseconds, for the demodulated 1 Hz carrier. A bit-0
// pulse is a ~100ms low phase, a bit-1 pulse is a ~200ms low phase.
const (
	DebounceUS  = 20000
	FalseMinUS  = 60000
	FalseMaxUS  = 140000
	TrueMinUS   = 160000
	TrueMaxUS   = 260000
	Tick59MinUS = 1200000
)

// Class is the three-way classification of a pulse's duration.
type Class int

const (
	Short Class = iota // bit 0
	Long               // bit 1
	Other
)

func (c Class) String() string {
	switch c {
	case Short:
		return "SHORT"
	case Long:
		return "LONG"
	default:
		return "OTHER"
	}
}

// Classify buckets a low-phase duration into Short, Long, or Other.
func Classify(durationUS uint64) Class {
	switch {
	case durationUS >= FalseMinUS && durationUS <= FalseMaxUS:
		return Short
	case durationUS >= TrueMinUS && durationUS <= TrueMaxUS:
		return Long
	default:
		return Other
	}
}

// Pulse is one low phase bounded by a falling edge and the next rising edge.
type Pulse struct {
	Start      uint64
	DurationUS uint64
	Class      Class
}

// Extract scans a time-ordered edge sequence and returns the low-phase
// pulses and the rising-edge timestamps. A 1->0 transition opens a low
// phase at the later (0-edge) timestamp; the next 0->1 transition closes
// it, emitting a Pulse and appending the closing timestamp to rising.
// Unpaired transitions (1->1, 0->0) are skipped and do not affect an open
// phase. A phase still open at the end of the window is dropped silently.
func Extract(edges []ring.Edge) (pulses []Pulse, rising []uint64) {
	var lowStart uint64
	lowActive := false

	for i := 0; i < len(edges)-1; i++ {
		a, b := edges[i].V, edges[i+1].V
		tb := edges[i+1].T

		switch {
		case a == 1 && b == 0:
			lowStart = tb
			lowActive = true
		case a == 0 && b == 1 && lowActive:
			d := tb - lowStart
			if d > 0 {
				pulses = append(pulses, Pulse{Start: lowStart, DurationUS: d, Class: Classify(d)})
			}
			lowActive = false
			rising = append(rising, tb)
		}
	}
	return pulses, rising
}
