// Package viterbi implements the soft-decode repair pass (C7): given a
// strand's observed bases, it finds the maximum-likelihood state path
// through the trellis (internal/codec) and returns the corrected base
// string, for strands whose CRC failed after a plain C1 inverse.
package viterbi

import "github.com/helixarc/helix/internal/codec"

// substitutionPenalty is the log-probability charged for an emission that
// disagrees with the observed base. Its exact value isn't observable from
// outside (no test pins it down); any negative value works as long as it's
// finite, so a single mismatch is always cheaper than breaking the
// no-repeat transition rule (which is -inf, i.e. forbidden outright).
const substitutionPenalty = -4.6 // ln(0.01)

const states = 4

// Repair finds the best-scoring state path consistent with observed and
// returns the corrected base string (same length as observed) plus its
// log-likelihood score, so the caller can decide whether the correction is
// worth re-checking the CRC for.
func Repair(observed string) (corrected string, score float64) {
	n := len(observed)
	if n == 0 {
		return "", 0
	}

	// dp[s] = best score of a path ending in state s at the current
	// position; back[i][s] = the predecessor state achieving dp[s] at
	// position i.
	dp := [states]float64{0: 0, 1: negInf, 2: negInf, 3: negInf} // s_0 fixed to state 0
	back := make([][states]int8, n+1)

	for i := 1; i <= n; i++ {
		obs := observed[i-1]
		var next [states]float64
		for s := 0; s < states; s++ {
			best := negInf
			bestPrev := int8(-1)
			for prev := 0; prev < states; prev++ {
				if prev == s {
					continue // forbidden transition: same-base repeat
				}
				cand := dp[prev]
				if cand <= negInf {
					continue
				}
				if cand > best {
					best = cand
					bestPrev = int8(prev)
				}
			}
			if bestPrev >= 0 {
				emission := 0.0
				if codec.Bases[s] != obs {
					emission = substitutionPenalty
				}
				next[s] = best + emission
			} else {
				next[s] = negInf
			}
			back[i][s] = bestPrev
		}
		dp = next
	}

	bestState, bestScore := 0, negInf
	for s := 0; s < states; s++ {
		if dp[s] > bestScore {
			bestScore = dp[s]
			bestState = s
		}
	}

	states_ := make([]int, n+1)
	states_[n] = bestState
	for i := n; i > 0; i-- {
		states_[i-1] = int(back[i][states_[i]])
	}

	out := make([]byte, n)
	for i := 1; i <= n; i++ {
		out[i-1] = codec.Bases[states_[i]]
	}
	return string(out), bestScore
}

const negInf = -1e18
