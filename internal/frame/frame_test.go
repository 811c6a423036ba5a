package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixarc/helix/internal/herrors"
)

func testConfig() Config {
	return Config{PrimerFwd: "ACGTACGTACGTACGTACGT", PrimerRev: "TGCATGCATGCATGCATGCA", TagLen: 16}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cfg := testConfig()
	salt := []byte("archive-salt-0123456789")
	shard := make([]byte, 32)
	for i := range shard {
		shard[i] = byte(i * 7)
	}
	tag := make([]byte, cfg.TagLen)
	copy(tag, "mytag")

	st, err := Encode(cfg, salt, 1, 2, tag, shard)
	require.NoError(t, err)
	assert.True(t, st.CRCValid)

	middle := st.Bases[len(cfg.PrimerFwd) : len(st.Bases)-len(cfg.PrimerRev)]
	got, payload, err := Decode(cfg, salt, cfg.TagLen, len(shard), middle)
	require.NoError(t, err)
	assert.True(t, got.CRCValid)
	assert.Equal(t, shard, payload)
	assert.Equal(t, uint32(1), got.BlockIndex)
	assert.Equal(t, uint16(2), got.ShardIndex)
}

func TestEncodeSatisfiesBiologicalConstraints(t *testing.T) {
	cfg := testConfig()
	salt := []byte("salt")
	// Pathological payload likely to need several retries to satisfy
	// GC/homopolymer constraints.
	shard := make([]byte, 32)
	for i := range shard {
		shard[i] = 0xFF
	}
	tag := make([]byte, cfg.TagLen)

	st, err := Encode(cfg, salt, 5, 0, tag, shard)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, gcFraction(st.Bases), minGC)
	assert.LessOrEqual(t, gcFraction(st.Bases), maxGC)
	assert.LessOrEqual(t, longestHomopolymer(st.Bases), maxHomopolymer)
}

func TestDecodeRejectsCorruptedCRC(t *testing.T) {
	cfg := testConfig()
	salt := []byte("salt")
	shard := make([]byte, 32)
	tag := make([]byte, cfg.TagLen)

	st, err := Encode(cfg, salt, 1, 0, tag, shard)
	require.NoError(t, err)

	middle := []byte(st.Bases[len(cfg.PrimerFwd) : len(st.Bases)-len(cfg.PrimerRev)])
	// Flip a base in the middle of the payload region to the first other
	// base in ACGT. If that base repeats a neighbour, the forbidden-repeat
	// detector also flags it; either way Decode must reject the strand.
	orig := middle[len(middle)/2]
	for _, b := range []byte("ACGT") {
		if b != orig {
			middle[len(middle)/2] = b
			break
		}
	}

	_, _, err = Decode(cfg, salt, cfg.TagLen, len(shard), string(middle))
	assert.Error(t, err)
}

func TestEncodeConstraintCapReached(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAttempts = 1
	// A homopolymer primer breaks the run-length limit on every attempt,
	// so the single allowed attempt is always exhausted.
	cfg.PrimerFwd = "AAAAAAAAAAAAAAAAAAAA"
	salt := []byte("salt")
	shard := make([]byte, 32)
	tag := make([]byte, cfg.TagLen)

	_, err := Encode(cfg, salt, 0, 0, tag, shard)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.ConstraintUnsatisfiable))
}
