package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrellisRoundTripNoErrors(t *testing.T) {
	trits := BytesToTrits([]byte("the quick brown fox"))
	bases := EncodeTrellis(trits)
	assert.Len(t, bases, len(trits))

	got, errPositions := DecodeTrellis(bases)
	assert.Empty(t, errPositions)
	assert.Equal(t, trits, got)
}

func TestTrellisNeverRepeatsABase(t *testing.T) {
	trits := BytesToTrits([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	bases := EncodeTrellis(trits)
	for i := 1; i < len(bases); i++ {
		assert.NotEqual(t, bases[i-1], bases[i], "homopolymer of length >1 at position %d", i)
	}
}

func TestTrellisFlagsForbiddenRepeat(t *testing.T) {
	trits := BytesToTrits([]byte("hello world"))
	bases := []byte(EncodeTrellis(trits))

	// Forcing a base to repeat its predecessor is the one substitution the
	// trellis itself can always catch, since same-state transitions never
	// occur in valid output.
	corrupted := make([]byte, len(bases))
	copy(corrupted, bases)
	corrupted[2] = corrupted[1]

	_, errPositions := DecodeTrellis(string(corrupted))
	assert.NotEmpty(t, errPositions)
}
