package viterbi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/helixarc/helix/internal/codec"
)

func TestRepairResolvesSingleSubstitutionWithOneChange(t *testing.T) {
	trits := codec.BytesToTrits([]byte("a payload that is long enough to matter for trellis repair"))
	clean := codec.EncodeTrellis(trits)

	// Substituting position 10 ('A') with 'C' repeats the base at position
	// 11, a transition the trellis never emits. Undoing it at position 10
	// or at position 11 costs the same single substitution, so the
	// maximum-likelihood path is a valid trellis string one base away from
	// the corrupted input, not necessarily the clean one; the CRC check
	// after repair decides whether the result is accepted.
	corrupted := []byte(clean)
	orig := corrupted[10]
	for _, b := range codec.Bases {
		if byte(b) != orig {
			corrupted[10] = byte(b)
			break
		}
	}

	repaired, score := Repair(string(corrupted))
	_, errPositions := codec.DecodeTrellis(repaired)
	assert.Empty(t, errPositions)
	assert.Equal(t, substitutionPenalty, score)

	diffs := 0
	for i := range repaired {
		if repaired[i] != corrupted[i] {
			diffs++
		}
	}
	assert.Equal(t, 1, diffs)
}

func TestRepairPreservesLength(t *testing.T) {
	repaired, score := Repair("ACGTACGT")
	assert.Len(t, repaired, 8)
	assert.NotPanics(t, func() { _ = score })
}

func TestRepairEmptyString(t *testing.T) {
	repaired, score := Repair("")
	assert.Equal(t, "", repaired)
	assert.Equal(t, 0.0, score)
}
