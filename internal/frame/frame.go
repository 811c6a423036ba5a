// Package frame implements the strand framer (C2): it wraps a shard's bytes
// with tag/index/CRC fields, base-encodes them through internal/codec, and
// retries under a rotating salt until the result is biologically safe to
// synthesize (§4.2).
package frame

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/helixarc/helix/internal/codec"
	"github.com/helixarc/helix/internal/herrors"
)

// DefaultMaxAttempts bounds the salted retry loop. 256 is generous for any
// realistic payload (see the retry-cap decision in DESIGN.md).
const DefaultMaxAttempts = 256

const (
	minGC = 0.35
	maxGC = 0.65
	// maxHomopolymer is the longest tolerated run of one base, anywhere in
	// the strand including primer junctions.
	maxHomopolymer = 3
)

// Config carries the archive-wide parameters a Framer needs to build or
// parse a strand.
type Config struct {
	PrimerFwd   string
	PrimerRev   string
	TagLen      int // width in bytes of the zero-padded tag field
	MaxAttempts int
}

func (c Config) maxAttempts() int {
	if c.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return c.MaxAttempts
}

// Strand is a framed, base-encoded shard ready to be written to the
// archive text, plus the bookkeeping needed to invert the process.
type Strand struct {
	Bases       string
	BlockIndex  uint32
	ShardIndex  uint16
	Attempt     uint8
	TagBytes    []byte
	CRCValid    bool
	Substituted bool // true if codec.DecodeTrellis flagged a position; the pipeline also sets it on strands accepted after Viterbi repair
}

// Encode frames shard (S bytes), trying attempt = 0, 1, 2, ... until the
// produced strand satisfies the GC/homopolymer/primer-collision
// constraints, and returns it. tag is zero/truncated to cfg.TagLen bytes.
func Encode(cfg Config, salt []byte, blockIndex uint32, shardIndex uint16, tag []byte, shard []byte) (Strand, error) {
	tagField := make([]byte, cfg.TagLen)
	copy(tagField, tag)

	for attempt := 0; attempt < cfg.maxAttempts(); attempt++ {
		payload := make([]byte, len(shard))
		copy(payload, shard)
		xorInPlace(payload, salt, blockIndex, shardIndex, uint8(attempt))

		middle := assembleMiddle(tagField, blockIndex, shardIndex, uint8(attempt), payload)
		trits := codec.BytesToTrits(middle)
		middleBases := codec.EncodeTrellis(trits)

		full := cfg.PrimerFwd + middleBases + cfg.PrimerRev
		if satisfiesConstraints(full, middleBases, cfg.PrimerFwd, cfg.PrimerRev) {
			return Strand{
				Bases:      full,
				BlockIndex: blockIndex,
				ShardIndex: shardIndex,
				Attempt:    uint8(attempt),
				TagBytes:   tagField,
				CRCValid:   true,
			}, nil
		}
	}
	return Strand{}, herrors.New(herrors.ConstraintUnsatisfiable,
		"block %d shard %d: no salt in 0..%d satisfied GC/homopolymer/primer constraints", blockIndex, shardIndex, cfg.maxAttempts()-1)
}

// assembleMiddle lays out the bytes that get C1-encoded: tag, block index,
// shard index, attempt, and the (already whitened) shard payload, followed
// by the CRC-32 over everything before it.
func assembleMiddle(tagField []byte, blockIndex uint32, shardIndex uint16, attempt uint8, xoredPayload []byte) []byte {
	var buf bytes.Buffer
	buf.Write(tagField)
	var idx [7]byte
	binary.BigEndian.PutUint32(idx[0:4], blockIndex)
	binary.BigEndian.PutUint16(idx[4:6], shardIndex)
	idx[6] = attempt
	buf.Write(idx[:])
	buf.Write(xoredPayload)

	sum := crc32.ChecksumIEEE(buf.Bytes())
	var crcBytes [4]byte
	binary.BigEndian.PutUint32(crcBytes[:], sum)
	buf.Write(crcBytes[:])
	return buf.Bytes()
}

// Decode takes a strand's middle-base string (the caller has already
// removed the primers), C1-decodes it, validates the CRC, and — only if
// the CRC is valid — de-whitens the shard payload. shardSize is S, the
// caller's configured shard byte size.
func Decode(cfg Config, salt []byte, tagLen, shardSize int, middleBases string) (Strand, []byte, error) {
	trits, errPositions := codec.DecodeTrellis(middleBases)
	data, tritsOK := codec.TritsToBytes(trits)

	frameLen := tagLen + 7 + shardSize + 4
	if len(data) < frameLen {
		return Strand{}, nil, herrors.New(herrors.MalformedArchive, "decoded frame too short: got %d want %d", len(data), frameLen)
	}
	data = data[:frameLen]

	tagField := append([]byte(nil), data[0:tagLen]...)
	blockIndex := binary.BigEndian.Uint32(data[tagLen : tagLen+4])
	shardIndex := binary.BigEndian.Uint16(data[tagLen+4 : tagLen+6])
	attempt := data[tagLen+6]
	xoredPayload := append([]byte(nil), data[tagLen+7:tagLen+7+shardSize]...)
	crcField := data[tagLen+7+shardSize : tagLen+7+shardSize+4]

	wantCRC := binary.BigEndian.Uint32(crcField)
	gotCRC := crc32.ChecksumIEEE(data[:tagLen+7+shardSize])

	st := Strand{
		BlockIndex:  blockIndex,
		ShardIndex:  shardIndex,
		Attempt:     attempt,
		TagBytes:    tagField,
		CRCValid:    wantCRC == gotCRC && tritsOK && len(errPositions) == 0,
		Substituted: len(errPositions) > 0,
	}
	if !st.CRCValid {
		return st, nil, herrors.New(herrors.MalformedArchive, "CRC mismatch on block %d shard %d", blockIndex, shardIndex)
	}

	payload := xorInPlace(xoredPayload, salt, blockIndex, shardIndex, attempt)
	return st, payload, nil
}

func satisfiesConstraints(full, middleBases, fwd, rev string) bool {
	if gcFraction(full) < minGC || gcFraction(full) > maxGC {
		return false
	}
	if longestHomopolymer(full) > maxHomopolymer {
		return false
	}
	if fwd != "" && bytes.Contains([]byte(middleBases), []byte(fwd)) {
		return false
	}
	if rev != "" && bytes.Contains([]byte(middleBases), []byte(rev)) {
		return false
	}
	return true
}

func gcFraction(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 'G' || s[i] == 'C' {
			gc++
		}
	}
	return float64(gc) / float64(len(s))
}

func longestHomopolymer(s string) int {
	if len(s) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}
