package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixarc/helix/internal/crypt"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		CompressionKind: compressionZstd,
		EncryptionKind:  encryptionAES256GCM,
		KDF:             crypt.DefaultKDFParams,
		Data:            10,
		Parity:          5,
		ShardSize:       32,
		StrandLen:       200,
		TagLen:          16,
		Tag:             "default",
		PrimerFwd:       "ACGTACGTACGTACGTACGT",
		PrimerRev:       "TGCATGCATGCATGCATGCA",
		TotalBlocks:     4,
		StrandCount:     64,
	}
	h.Salt[0], h.Salt[15] = 0xAB, 0xCD

	encoded := h.Encode()
	got, err := DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	_, err := DecodeHeader([]byte("not a helix header at all"))
	assert.Error(t, err)
}
