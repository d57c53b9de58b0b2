// Package pipeline wires the per-cycle analysis together: snapshot the
// edge ring, extract pulses, score reception quality, attempt a frame
// decode, and apply the display-status formatting policy. It is the "periodic
// driver" of the DCF77-class decode pipeline, kept free of any hardware
// dependency so it can run against a captured edge window in tests.
package pipeline

import (
	"strconv"

	"github.com/mlund/dcf77clock/internal/frame"
	"github.com/mlund/dcf77clock/internal/pulse"
	"github.com/mlund/dcf77clock/internal/quality"
	"github.com/mlund/dcf77clock/internal/ring"
)

// Result is the outcome of one analysis cycle: the reception-quality
// score, the three display lines, and the underlying counters a caller
// (status tracker, metrics) may want to retain.
type Result struct {
	EdgeCount     int
	PulseCount    int
	Counts        quality.Counts
	Score         int
	Frames        []frame.Frame
	VotedFrame    frame.Frame
	FramesAgree   bool
	Line1         string
	Line2         string
	Line3         string
}

// Run executes one analysis cycle over a snapshot of edges.
func Run(edges []ring.Edge) Result {
	var r Result
	r.EdgeCount = len(edges)

	if len(edges) < 4 {
		r.Line1, r.Line2, r.Line3 = "0", "NO SIG", ""
		return r
	}

	pulses, rising := pulse.Extract(edges)
	r.PulseCount = len(pulses)

	if len(pulses) == 0 {
		r.Line1, r.Line2, r.Line3 = "0", "NO PULSE", ""
		return r
	}

	r.Counts = quality.Analyze(pulses, rising)
	r.Frames = frame.LocateAndDecode(pulses)
	frameDecoded := len(r.Frames) > 0
	if frameDecoded {
		r.VotedFrame, r.FramesAgree = frame.Vote(r.Frames)
	}

	r.Score = quality.Score(r.Counts, frameDecoded)
	r.Line1, r.Line2, r.Line3 = formatStatus(r)
	return r
}

// formatStatus applies the first-matching-rule display policy to an
// already-computed Result: a decoded frame wins outright, otherwise the
// score buckets into GOOD/WEAK/NOISE.
func formatStatus(r Result) (line1, line2, line3 string) {
	scoreStr := strconv.Itoa(r.Score)

	switch {
	case len(r.Frames) > 0:
		f := r.Frames[0]
		return scoreStr, hhmm(f.Hour, f.Minute), ddmm(f.Day, f.Month)
	case r.Score >= 50:
		return scoreStr, "GOOD", "NO FRAME"
	case r.Score >= 30:
		return scoreStr, "WEAK", shortLong(r.Counts)
	default:
		return scoreStr, "NOISE", ""
	}
}

func pad2(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 99 {
		n = 99
	}
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func hhmm(hour, minute int) string {
	return pad2(hour) + ":" + pad2(minute)
}

func ddmm(day, month int) string {
	return pad2(day) + "/" + pad2(month)
}

func shortLong(c quality.Counts) string {
	return strconv.Itoa(c.Short) + "/" + strconv.Itoa(c.Long)
}
