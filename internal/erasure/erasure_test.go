package erasure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixarc/helix/internal/herrors"
)

func TestEncodeReconstructNoLoss(t *testing.T) {
	c, err := New(10, 5, 32)
	require.NoError(t, err)

	plain := make([]byte, 10*32)
	for i := range plain {
		plain[i] = byte(i)
	}

	shards, err := c.EncodeBlock(plain)
	require.NoError(t, err)
	assert.Len(t, shards, 15)

	got, err := c.Reconstruct(shards)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestReconstructToleratesMaxErasures(t *testing.T) {
	c, err := New(10, 5, 32)
	require.NoError(t, err)

	plain := make([]byte, 10*32)
	for i := range plain {
		plain[i] = byte(i * 3)
	}
	shards, err := c.EncodeBlock(plain)
	require.NoError(t, err)

	damaged := make([][]byte, len(shards))
	copy(damaged, shards)
	for i := 0; i < 5; i++ {
		damaged[i] = nil
	}

	got, err := c.Reconstruct(damaged)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestReconstructFailsBelowThreshold(t *testing.T) {
	c, err := New(10, 5, 32)
	require.NoError(t, err)

	plain := make([]byte, 10*32)
	shards, err := c.EncodeBlock(plain)
	require.NoError(t, err)

	damaged := make([][]byte, len(shards))
	copy(damaged, shards)
	for i := 0; i < 6; i++ {
		damaged[i] = nil
	}

	_, err = c.Reconstruct(damaged)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.Unrecoverable))
}

func TestZeroParityRoundTrip(t *testing.T) {
	c, err := New(4, 0, 16)
	require.NoError(t, err)

	plain := make([]byte, 4*16)
	for i := range plain {
		plain[i] = byte(i + 1)
	}
	shards, err := c.EncodeBlock(plain)
	require.NoError(t, err)
	assert.Len(t, shards, 4)

	got, err := c.Reconstruct(shards)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}
