package pipeline

import (
	"testing"

	"github.com/mlund/dcf77clock/internal/frame"
	"github.com/mlund/dcf77clock/internal/ring"
)

// TestNoSignal reproduces S1: an empty edge list reports NO SIG at score 0.
func TestNoSignal(t *testing.T) {
	r := Run(nil)
	if r.Line1 != "0" || r.Line2 != "NO SIG" || r.Line3 != "" {
		t.Errorf("got (%q,%q,%q), want (0, NO SIG, \"\")", r.Line1, r.Line2, r.Line3)
	}
	if r.Score != 0 {
		t.Errorf("expected score 0, got %d", r.Score)
	}
}

// TestDCStuckLow reproduces S2: a single 1->0 edge followed by silence
// yields zero pulses.
func TestDCStuckLow(t *testing.T) {
	edges := []ring.Edge{
		{T: 0, V: 1},
		{T: 1000, V: 0},
		{T: 2000, V: 0}, // glitch, no further transition
		{T: 3000, V: 0},
	}
	r := Run(edges)
	if r.PulseCount != 0 {
		t.Fatalf("expected 0 pulses, got %d", r.PulseCount)
	}
	if r.Line1 != "0" || r.Line2 != "NO PULSE" || r.Line3 != "" {
		t.Errorf("got (%q,%q,%q), want (0, NO PULSE, \"\")", r.Line1, r.Line2, r.Line3)
	}
}

// oneHzShortPulses builds n consecutive 100ms low phases spaced 1s apart:
// fall at k*1s, rise 100ms later, high for the remaining 900ms.
func oneHzShortPulses(n int, startT uint64) []ring.Edge {
	edges := []ring.Edge{{T: startT, V: 1}} // baseline high sample before the first fall
	t := startT
	for i := 0; i < n; i++ {
		edges = append(edges, ring.Edge{T: t, V: 0})
		edges = append(edges, ring.Edge{T: t + 100000, V: 1})
		t += 1000000
	}
	return edges
}

// TestCleanOneHzNoFrame reproduces S3: 12 clean short pulses at ~1s
// spacing, no long gap, no frame -> score 70, GOOD/NO FRAME.
func TestCleanOneHzNoFrame(t *testing.T) {
	edges := oneHzShortPulses(12, 0)
	r := Run(edges)
	if r.Score != 70 {
		t.Errorf("expected score 70, got %d", r.Score)
	}
	if r.Line2 != "GOOD" || r.Line3 != "NO FRAME" {
		t.Errorf("got line2=%q line3=%q, want GOOD/NO FRAME", r.Line2, r.Line3)
	}
}

func buildMinuteFrameEdges(f frame.Frame, startT uint64) []ring.Edge {
	return buildEdgesFromBits(frame.Encode(f), startT)
}

func buildEdgesFromBits(bits [frame.FrameLen]int, startT uint64) []ring.Edge {
	var edges []ring.Edge
	t := startT

	// A preceding pulse closes normally, then the line stays high through
	// the missing 59th second before the frame's first low phase opens.
	edges = append(edges, ring.Edge{T: t, V: 1})
	edges = append(edges, ring.Edge{T: t + 100000, V: 0})
	edges = append(edges, ring.Edge{T: t + 200000, V: 1})
	t += 200000 + 1900000 // the missing 59th second

	for _, b := range bits {
		var dur uint64 = 100000
		if b == 1 {
			dur = 200000
		}
		edges = append(edges, ring.Edge{T: t, V: 0})
		t += dur
		edges = append(edges, ring.Edge{T: t, V: 1})
		t += 800000 // pad out to ~1s period between pulses
	}
	return edges
}

// TestCleanMinuteFrameDecoded reproduces S4: a full, clean minute frame
// decodes and reports HH:MM / DD/MM with a high score.
func TestCleanMinuteFrameDecoded(t *testing.T) {
	f := frame.Frame{Minute: 37, Hour: 14, Day: 5, Weekday: 3, Month: 11, Year: 24}
	edges := buildMinuteFrameEdges(f, 0)
	r := Run(edges)

	if len(r.Frames) == 0 {
		t.Fatalf("expected at least one decoded frame")
	}
	if r.Line2 != "14:37" {
		t.Errorf("expected line2=14:37, got %q", r.Line2)
	}
	if r.Line3 != "05/11" {
		t.Errorf("expected line3=05/11, got %q", r.Line3)
	}
	if r.Score < 80 {
		t.Errorf("expected score >= 80, got %d", r.Score)
	}
}

// TestParityViolationFallsThrough reproduces S5: flipping a protected bit
// rejects the frame and falls through to the score-tier branches.
func TestParityViolationFallsThrough(t *testing.T) {
	f := frame.Frame{Minute: 37, Hour: 14, Day: 5, Weekday: 3, Month: 11, Year: 24}
	bits := frame.Encode(f)
	bits[21] = 1 - bits[21] // flip a minute-field data bit: breaks minute parity

	edges := buildEdgesFromBits(bits, 0)
	r := Run(edges)

	if len(r.Frames) != 0 {
		t.Fatalf("expected the corrupted frame to be rejected, got %d decoded frames", len(r.Frames))
	}
	if r.Line2 == "14:37" {
		t.Errorf("expected rejected frame, got decoded line2=%q", r.Line2)
	}
	if r.Line2 != "GOOD" && r.Line2 != "WEAK" && r.Line2 != "NOISE" {
		t.Errorf("expected fallthrough to score-tier branch, got line2=%q", r.Line2)
	}
}

func TestScoreAlwaysInBounds(t *testing.T) {
	edges := oneHzShortPulses(20, 0)
	r := Run(edges)
	if r.Score < 0 || r.Score > 100 {
		t.Errorf("score out of [0,100]: %d", r.Score)
	}
}
