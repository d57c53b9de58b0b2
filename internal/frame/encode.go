package frame

// Encode produces the 59-bit wire representation of a Frame, with correct
// markers and even parity bits, for use in round-trip tests and in test
// fixtures that synthesize a clean minute frame.
func Encode(f Frame) [FrameLen]int {
	var bits [FrameLen]int

	bits[0] = 0
	bits[20] = 1

	setBCD(bits[21:28], weightsMinute[:], f.Minute)
	bits[28] = parityBit(bits[21:28])

	setBCD(bits[29:35], weightsHour[:], f.Hour)
	bits[35] = parityBit(bits[29:35])

	setBCD(bits[36:42], weightsDay[:], f.Day)
	setBCD(bits[42:45], weightsWeekday[:], f.Weekday)
	setBCD(bits[45:50], weightsMonth[:], f.Month)
	setBCD(bits[50:58], weightsYear[:], f.Year)
	bits[58] = parityBit(bits[36:58])

	return bits
}

// setBCD encodes value's decimal digits into dst using the given per-bit
// weights: weights below 10 test bits of the ones digit, weights of 10 and
// above test bits of the tens digit (scaled down by 10).
func setBCD(dst []int, weights []int, value int) {
	ones := value % 10
	tens := value / 10
	for i, w := range weights {
		if w < 10 {
			if ones&w != 0 {
				dst[i] = 1
			}
		} else if tens&(w/10) != 0 {
			dst[i] = 1
		}
	}
}

func parityBit(bits []int) int {
	setCount := 0
	for _, b := range bits {
		if b != 0 {
			setCount++
		}
	}
	return setCount % 2
}
