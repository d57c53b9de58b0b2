package frame

import (
	"testing"

	"github.com/mlund/dcf77clock/internal/pulse"
	"github.com/stretchr/testify/require"
)

func TestDecodeBCDEvenParity(t *testing.T) {
	// bits 1,0,1 -> setCount=2 (even); parity bit 0 keeps it even: valid.
	got := DecodeBCD([]int{1, 0, 1, 0}, []int{1, 2, 4}, true)
	require.Equal(t, 5, got)

	// same data, but parity bit 1 makes the total odd: invalid.
	got = DecodeBCD([]int{1, 0, 1, 1}, []int{1, 2, 4}, true)
	require.Equal(t, -1, got)
}

func TestDecodeBCDNoParity(t *testing.T) {
	got := DecodeBCD([]int{1, 1, 0, 1}, []int{1, 2, 4, 8}, false)
	require.Equal(t, 11, got)
}

func frameFixture() Frame {
	return Frame{Minute: 37, Hour: 14, Day: 5, Weekday: 3, Month: 11, Year: 24}
}

func pulsesFromBits(bits [FrameLen]int) []pulse.Pulse {
	ps := make([]pulse.Pulse, FrameLen)
	var start uint64 = 2000000
	for i, b := range bits {
		var dur uint64
		var class pulse.Class
		if b == 0 {
			dur = 100000
			class = pulse.Short
		} else {
			dur = 200000
			class = pulse.Long
		}
		ps[i] = pulse.Pulse{Start: start, DurationUS: dur, Class: class}
		start += 1000000
	}
	return ps
}

// TestRoundTrip covers spec property 5: encode then decode yields the
// original tuple.
func TestRoundTrip(t *testing.T) {
	want := frameFixture()
	bits := Encode(want)
	got, ok := Decode(bits)
	require.True(t, ok)
	require.Equal(t, want, got)
}

// TestCleanMinuteFrame reproduces S4: 59 pulses encoding a full frame,
// preceded by a 1.9s gap, decodes successfully.
func TestCleanMinuteFrame(t *testing.T) {
	want := frameFixture()
	bits := Encode(want)

	// A preceding "missing 59th pulse" pulse whose Start is far enough
	// before bits[0]'s pulse to trigger minute-mark alignment.
	preceding := pulse.Pulse{Start: 100000, DurationUS: 100000, Class: pulse.Short}
	framePulses := pulsesFromBits(bits)
	// Re-anchor so the gap from preceding to framePulses[0] exceeds Tick59MinUS.
	shift := preceding.Start + pulse.Tick59MinUS + 500000
	for i := range framePulses {
		framePulses[i].Start += shift - framePulses[0].Start
	}

	all := append([]pulse.Pulse{preceding}, framePulses...)
	frames := LocateAndDecode(all)
	require.Len(t, frames, 1)
	require.Equal(t, want, frames[0])
}

// TestParityViolationRejectsFrame reproduces S5: flipping the minute's
// first parity-protected data bit causes the frame to be rejected.
func TestParityViolationRejectsFrame(t *testing.T) {
	want := frameFixture()
	bits := Encode(want)
	bits[21] = 1 - bits[21] // flip minute field bit -> breaks minute parity

	preceding := pulse.Pulse{Start: 100000, DurationUS: 100000, Class: pulse.Short}
	framePulses := pulsesFromBits(bits)
	shift := preceding.Start + pulse.Tick59MinUS + 500000
	for i := range framePulses {
		framePulses[i].Start += shift - framePulses[0].Start
	}
	all := append([]pulse.Pulse{preceding}, framePulses...)

	frames := LocateAndDecode(all)
	require.Len(t, frames, 0)
}

func TestDecodeRejectsBadMarkers(t *testing.T) {
	want := frameFixture()
	bits := Encode(want)
	bits[0] = 1 // start-of-minute marker must be 0
	_, ok := Decode(bits)
	require.False(t, ok)

	bits = Encode(want)
	bits[20] = 0 // start-of-time marker must be 1
	_, ok = Decode(bits)
	require.False(t, ok)
}

func TestDecodeEnforcesDateParity(t *testing.T) {
	want := frameFixture()
	bits := Encode(want)
	bits[58] = 1 - bits[58] // flip the date block parity bit
	_, ok := Decode(bits)
	require.False(t, ok)
}

func TestLocateAndDecodeCapsAtMax(t *testing.T) {
	want := frameFixture()
	bits := Encode(want)

	var all []pulse.Pulse
	var start uint64 = 100000
	for i := 0; i < MaxFramesPerCycle+3; i++ {
		marker := pulse.Pulse{Start: start, DurationUS: 100000, Class: pulse.Short}
		start += pulse.Tick59MinUS + 500000
		fp := pulsesFromBits(bits)
		shift := start - fp[0].Start
		for j := range fp {
			fp[j].Start += shift
		}
		all = append(all, marker)
		all = append(all, fp...)
		start = fp[len(fp)-1].Start + 1000000
	}

	frames := LocateAndDecode(all)
	if len(frames) > MaxFramesPerCycle {
		t.Fatalf("expected at most %d frames, got %d", MaxFramesPerCycle, len(frames))
	}
}
