package pipeline

import (
	"context"
	"encoding/binary"

	"golang.org/x/sync/errgroup"

	"github.com/helixarc/helix/internal/archive"
	"github.com/helixarc/helix/internal/compress"
	"github.com/helixarc/helix/internal/crypt"
	"github.com/helixarc/helix/internal/erasure"
	"github.com/helixarc/helix/internal/frame"
	"github.com/helixarc/helix/internal/herrors"
)

// Restore runs the full decode chain (C6 inverse): locate and reconstruct
// the header belonging to this tag (not just any header in the soup — a
// pool can hold several independently compiled archives), group data
// strands by the CLI-supplied primers and tag (not the header's own copy
// of them — restoring with the wrong primers must fail even though the
// header technically records the right ones, the same way a PCR
// amplification without the matching primer pair pulls nothing out of a
// pooled sample), repair and erasure-reconstruct each block in parallel,
// and invert encryption and compression.
func Restore(archiveText []byte, p Params) ([]byte, error) {
	p = p.withDefaults()

	lines := archive.ParseBases(archiveText)
	groups, err := extractHeaders(lines)
	if err != nil {
		return nil, err
	}

	var chosen *headerGroup
	for i := range groups {
		g := &groups[i]
		if g.header.Data == p.Data && g.header.Parity == p.Parity && g.header.ShardSize == p.ShardSize && g.header.Tag == p.Tag {
			chosen = g
			break
		}
	}
	if chosen == nil {
		return nil, herrors.New(herrors.ParameterMismatch,
			"no archive header in this file matches supplied D=%d P=%d S=%d tag=%q",
			p.Data, p.Parity, p.ShardSize, p.Tag)
	}
	header := chosen.header
	headerBytes := chosen.headerBytes

	dataCfg := frame.Config{PrimerFwd: p.PrimerFwd, PrimerRev: p.PrimerRev, TagLen: DataTagLen}
	strandLength := dataStrandLen(p.PrimerFwd, p.PrimerRev, p.ShardSize)
	shardsPerBlock := header.Data + header.Parity

	blockShards := make([][][]byte, header.TotalBlocks)
	for b := range blockShards {
		blockShards[b] = make([][]byte, shardsPerBlock)
	}

	for _, line := range candidateLines(lines, strandLength) {
		st, payload, ok := decodeStrand(dataCfg, header.Salt[:], DataTagLen, header.ShardSize, line)
		if !ok {
			continue
		}
		if !tagMatches(st.TagBytes, p.Tag) {
			continue
		}
		b := int(st.BlockIndex) - 1
		if b < 0 || b >= header.TotalBlocks {
			continue
		}
		if int(st.ShardIndex) < 0 || int(st.ShardIndex) >= shardsPerBlock {
			continue
		}
		blockShards[b][st.ShardIndex] = payload
	}

	var aead *crypt.Cipher
	if header.EncryptionKind == encryptionAES256GCM {
		if p.Password == "" {
			return nil, herrors.New(herrors.PasswordRequired, "archive is encrypted, no password supplied")
		}
		key := crypt.DeriveKey(p.Password, header.Salt[:], header.KDF)
		aead, err = crypt.New(key, header.Salt[:])
		if err != nil {
			return nil, err
		}
	}

	dataCodec, err := erasure.New(header.Data, header.Parity, header.ShardSize)
	if err != nil {
		return nil, err
	}

	// Each block is independent after C8's tag/block grouping above, so
	// reconstruction and decryption fan out across the worker pool the
	// same way Compile's encode side does.
	blockPlain := make([][]byte, header.TotalBlocks)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobCount(p.Jobs))
	for b := 0; b < header.TotalBlocks; b++ {
		b := b
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			present := 0
			for _, s := range blockShards[b] {
				if s != nil {
					present++
				}
			}
			if present == 0 {
				return herrors.New(herrors.Unrecoverable, "SEQUENCE GAP: block %d has no surviving strands", b+1)
			}

			shardSource, err := dataCodec.Reconstruct(blockShards[b])
			if err != nil {
				return err
			}

			if aead != nil {
				plain, err := aead.OpenBlock(uint32(b+1), shardSource, headerBytes)
				if err != nil {
					return err
				}
				blockPlain[b] = plain
			} else {
				blockPlain[b] = shardSource
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	blockPlainSize := header.Data*header.ShardSize - overheadFor(header.EncryptionKind)
	stream := make([]byte, 0, header.TotalBlocks*blockPlainSize)
	for _, plain := range blockPlain {
		stream = append(stream, plain...)
	}

	if len(stream) < 8 {
		return nil, herrors.New(herrors.MalformedArchive, "decoded stream shorter than its own length prefix")
	}
	n := binary.BigEndian.Uint64(stream[0:8])
	if n > uint64(len(stream)-8) {
		return nil, herrors.New(herrors.MalformedArchive, "compressed payload length %d exceeds decoded stream", n)
	}
	compressed := stream[8 : 8+n]

	return compress.Decompress(compressed)
}

func overheadFor(encryptionKind byte) int {
	if encryptionKind == encryptionAES256GCM {
		return crypt.Overhead
	}
	return 0
}
