package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("the archive payload repeats itself a lot, "), 1000)

	compressed, err := Compress(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(payload))

	got, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCompressEmptyPayload(t *testing.T) {
	compressed, err := Compress(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecompressRejectsGarbage(t *testing.T) {
	_, err := Decompress([]byte("not a zstd frame"))
	assert.Error(t, err)
}
