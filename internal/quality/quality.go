// Package quality turns a window of classified pulses and rising-edge
// timestamps into a bounded reception-quality score, per a fixed stepwise
// additive policy. Each term is treated as a near-independent evidence
// channel so the sum stays monotone and cheap to compute.
package quality

import "github.com/mlund/dcf77clock/internal/pulse"

// Counts summarizes one analysis cycle's pulse classification and
// inter-rising-edge gap histograms.
type Counts struct {
	Total      int
	Short      int
	Long       int
	Other      int
	SecLike    int // adjacent rising gaps in [900ms, 1100ms]: evidence of 1Hz carrier
	Tick59Like int // adjacent rising gaps >= Tick59MinUS: candidate minute marks
}

// ShortLongRatio returns (short+long)/total, or 0 if total is 0.
func (c Counts) ShortLongRatio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Short+c.Long) / float64(c.Total)
}

// OtherRatio returns other/total, or 0 if total is 0.
func (c Counts) OtherRatio() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Other) / float64(c.Total)
}

// Analyze classifies pulses and computes the rising-edge gap histograms.
func Analyze(pulses []pulse.Pulse, rising []uint64) Counts {
	var c Counts
	c.Total = len(pulses)
	for _, p := range pulses {
		switch p.Class {
		case pulse.Short:
			c.Short++
		case pulse.Long:
			c.Long++
		default:
			c.Other++
		}
	}

	for i := 0; i < len(rising)-1; i++ {
		gap := rising[i+1] - rising[i]
		if gap >= 900000 && gap <= 1100000 {
			c.SecLike++
		}
		if gap >= pulse.Tick59MinUS {
			c.Tick59Like++
		}
	}
	return c
}

// Score computes the [0, 100] reception-quality score from the pulse and
// gap histograms plus whether a frame decoded this cycle. Ties resolve to
// the higher tier.
func Score(c Counts, frameDecoded bool) int {
	score := 0

	switch {
	case c.SecLike >= 10:
		score += 40
	case c.SecLike >= 5:
		score += 20
	case c.SecLike >= 2:
		score += 10
	}

	if c.Tick59Like >= 1 {
		score += 20
	}

	switch ratio := c.ShortLongRatio(); {
	case ratio >= 0.7:
		score += 20
	case ratio >= 0.5:
		score += 10
	}

	switch ratio := c.OtherRatio(); {
	case ratio <= 0.2:
		score += 10
	case ratio <= 0.4:
		score += 5
	}

	if frameDecoded {
		score += 10
	}

	return score
}
