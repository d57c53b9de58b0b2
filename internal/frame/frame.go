// Package frame locates minute-mark alignment in a pulse sequence and
// decodes the fixed-position, parity-protected 59-bit DCF77-class minute
// frame into its BCD date/time fields.
package frame

import "github.com/mlund/dcf77clock/internal/pulse"

// FrameLen is the number of bits in one minute frame.
const FrameLen = 59

// MaxFramesPerCycle bounds how many candidate frames are decoded from a
// single analysis window.
const MaxFramesPerCycle = 10

// Frame holds the decoded fields of a successful minute-frame decode.
type Frame struct {
	Minute  int
	Hour    int
	Day     int
	Weekday int
	Month   int
	Year    int
}

var (
	weightsMinute  = [7]int{1, 2, 4, 8, 10, 20, 40}
	weightsHour    = [6]int{1, 2, 4, 8, 10, 20}
	weightsDay     = [6]int{1, 2, 4, 8, 10, 20}
	weightsWeekday = [3]int{1, 2, 4}
	weightsMonth   = [5]int{1, 2, 4, 8, 10}
	weightsYear    = [8]int{1, 2, 4, 8, 10, 20, 40, 80}
)

// DecodeBCD sums the weighted set bits in bits[0:len(weights)] and, if
// checkParity is true, validates the bit at bits[len(weights)] as the even
// parity bit over that data field. It returns the decoded value, or -1 if
// parity checking is requested and fails.
func DecodeBCD(bits []int, weights []int, checkParity bool) int {
	sum := 0
	setCount := 0
	for i, w := range weights {
		if bits[i] != 0 {
			sum += w
			setCount++
		}
	}
	if checkParity {
		parityBit := bits[len(weights)]
		// Valid when setCount+parityBit is even.
		if (setCount+parityBit)%2 != 0 {
			return -1
		}
	}
	return sum
}

// evenParityOK reports whether the parity bit makes the total set-bit
// count over bits (data only) plus the parity bit even.
func evenParityOK(bits []int, parityBit int) bool {
	setCount := 0
	for _, b := range bits {
		if b != 0 {
			setCount++
		}
	}
	return (setCount+parityBit)%2 == 0
}

// Decode validates and decodes a 59-element bit slice (bits[i] in {0,1})
// into a Frame. Bit 0 must be 0 (start-of-minute marker) and bit 20 must be
// 1 (start-of-time marker), else the frame is rejected. Minute and hour
// fields are rejected on parity failure, and the date block (bits 36..57)
// is rejected if it fails the even-parity check at bit 58.
func Decode(bits [FrameLen]int) (Frame, bool) {
	if bits[0] != 0 || bits[20] != 1 {
		return Frame{}, false
	}

	minute := DecodeBCD(bits[21:29], weightsMinute[:], true)
	if minute < 0 {
		return Frame{}, false
	}

	hour := DecodeBCD(bits[29:36], weightsHour[:], true)
	if hour < 0 {
		return Frame{}, false
	}

	day := DecodeBCD(bits[36:42], weightsDay[:], false)
	weekday := DecodeBCD(bits[42:45], weightsWeekday[:], false)
	month := DecodeBCD(bits[45:50], weightsMonth[:], false)
	year := DecodeBCD(bits[50:58], weightsYear[:], false)

	if !evenParityOK(bits[36:58], bits[58]) {
		return Frame{}, false
	}

	return Frame{
		Minute:  minute,
		Hour:    hour,
		Day:     day,
		Weekday: weekday,
		Month:   month,
		Year:    year,
	}, true
}

// LocateAndDecode scans a pulse sequence for minute-mark alignment: for
// pulse index i, a gap between low-phase start timestamps of
// low_starts[i+1]-low_starts[i] >= Tick59MinUS marks i+1 as the start of a
// new minute (the large gap is the missing 59th pulse of the preceding
// minute). From each such start, the next 59 pulses are classified as bits
// (Short=0, Long=1); any Other aborts that attempt. At most
// MaxFramesPerCycle frames are decoded per call.
func LocateAndDecode(pulses []pulse.Pulse) []Frame {
	var frames []Frame

	for i := 0; i < len(pulses)-1 && len(frames) < MaxFramesPerCycle; i++ {
		gap := pulses[i+1].Start - pulses[i].Start
		if gap < pulse.Tick59MinUS {
			continue
		}

		start := i + 1
		if start+FrameLen > len(pulses) {
			continue
		}

		var bits [FrameLen]int
		valid := true
		for j := 0; j < FrameLen; j++ {
			switch pulses[start+j].Class {
			case pulse.Short:
				bits[j] = 0
			case pulse.Long:
				bits[j] = 1
			default:
				valid = false
			}
			if !valid {
				break
			}
		}
		if !valid {
			continue
		}

		if f, ok := Decode(bits); ok {
			frames = append(frames, f)
		}
	}

	return frames
}

// Vote returns the first decoded frame together with whether every other
// frame decoded in the same cycle agrees with it: the minute field must
// advance by exactly the number of elapsed frames and all other fields
// must be identical. This is an observability signal, not a change to the
// primary "first frame wins" reporting contract.
func Vote(frames []Frame) (Frame, bool) {
	if len(frames) == 0 {
		return Frame{}, false
	}
	first := frames[0]
	agree := true
	for i, f := range frames[1:] {
		wantMinute := (first.Minute + i + 1) % 60
		if f.Minute != wantMinute || f.Hour != first.Hour || f.Day != first.Day ||
			f.Weekday != first.Weekday || f.Month != first.Month || f.Year != first.Year {
			agree = false
			break
		}
	}
	return first, agree
}
