package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToTritsRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		{255},
		{0, 1, 2, 3, 4, 5, 6, 7},
		{255, 255, 255, 255, 255, 255, 255},
	}
	for _, c := range cases {
		trits := BytesToTrits(c)
		got, ok := TritsToBytes(trits)
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
}

func TestTritsPerByteGroupLength(t *testing.T) {
	trits := BytesToTrits([]byte{1, 2, 3})
	assert.Len(t, trits, 3*TritsPerByte)
}

func TestTritsToBytesOverflowRejected(t *testing.T) {
	trits := make([]byte, TritsPerByte)
	for i := range trits {
		trits[i] = 2 // 2*(1+3+9+27+81+243) = 728, overflows a byte
	}
	_, ok := TritsToBytes(trits)
	assert.False(t, ok)
}
