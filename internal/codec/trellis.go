package codec

// Bases is the state alphabet: state index i emits Bases[i].
const Bases = "ACGT"

// baseIndex maps a base character to its state index, or -1 if the
// character is not one of A/C/G/T.
func baseIndex(c byte) int {
	switch c {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return -1
	}
}

// EncodeTrellis walks the trit sequence through the no-repeat trellis
// (s_next = (s_prev + t + 1) mod 4, initial state 0) and returns the
// emitted base string. Because t is always in {0,1,2}, s_next never equals
// s_prev: same-base repeats are impossible by construction.
func EncodeTrellis(trits []byte) string {
	out := make([]byte, len(trits))
	state := 0
	for i, t := range trits {
		state = (state + int(t) + 1) % 4
		out[i] = Bases[state]
	}
	return string(out)
}

// DecodeTrellis inverts EncodeTrellis. It walks observed bases rather than
// emitted trits, so a single-base substitution corrupts at most the trits
// recovered at that position and the next one: the state for each position
// is taken from the actually-observed base, not from what the encoder
// intended, so the code is self-synchronizing and an error does not
// propagate beyond the following position.
//
// If the recovered value at a position is 3, the transition is one the
// trellis never emits (same-base repeat), which only occurs if that base
// was substituted; the position is reported in errPositions and the trit
// is recorded as 0 so decoding can continue.
func DecodeTrellis(bases string) (trits []byte, errPositions []int) {
	trits = make([]byte, len(bases))
	state := 0
	for i := 0; i < len(bases); i++ {
		s := baseIndex(bases[i])
		if s < 0 {
			// Non-ACGT input should already have been filtered by the
			// archive parser; treat it as a flagged substitution so the
			// caller can still route the strand to repair/erasure.
			errPositions = append(errPositions, i)
			trits[i] = 0
			continue
		}
		t := ((s - state - 1) % 4 + 4) % 4
		if t == 3 {
			errPositions = append(errPositions, i)
			t = 0
		}
		trits[i] = byte(t)
		state = s
	}
	return trits, errPositions
}
