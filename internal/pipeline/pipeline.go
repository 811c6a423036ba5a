// Package pipeline drives a payload through the full encode chain
// (compress -> encrypt -> shard -> frame -> text) and its exact inverse
// (C6), including the meta-strand header, tag-based grouping, and the
// CRC -> Viterbi -> erasure repair cascade on decode.
package pipeline

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/helixarc/helix/internal/archive"
	"github.com/helixarc/helix/internal/compress"
	"github.com/helixarc/helix/internal/crypt"
	"github.com/helixarc/helix/internal/erasure"
	"github.com/helixarc/helix/internal/frame"
	"github.com/helixarc/helix/internal/herrors"
	"github.com/helixarc/helix/internal/viterbi"
)

// DataTagLen is the width, in bytes, of the zero-padded tag field carried
// by every data strand (distinct from the meta strand's fixed MetaTagLen).
const DataTagLen = 16

// Built-in defaults (§6).
const (
	DefaultData   = 10
	DefaultParity = 5
	DefaultShard  = 32
	DefaultTag    = "default"

	DefaultPrimerFwd = "ACGTACGTACGTACGTACGT"
	DefaultPrimerRev = "TGCATGCATGCATGCATGCA"
)

// Params configures Compile.
type Params struct {
	Data, Parity int
	ShardSize    int
	Tag          string
	Password     string
	PrimerFwd    string
	PrimerRev    string
	Jobs         int
}

func (p Params) withDefaults() Params {
	if p.Data <= 0 {
		p.Data = DefaultData
	}
	if p.Parity < 0 {
		p.Parity = DefaultParity
	}
	if p.ShardSize <= 0 {
		p.ShardSize = DefaultShard
	}
	if p.Tag == "" {
		p.Tag = DefaultTag
	}
	if p.PrimerFwd == "" {
		p.PrimerFwd = DefaultPrimerFwd
	}
	if p.PrimerRev == "" {
		p.PrimerRev = DefaultPrimerRev
	}
	return p
}

func jobCount(jobs int) int {
	if jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return jobs
}

// strandLen computes L given primer lengths, tag field width, and shard
// byte size (§3 frame layout: primer + tag + indices + attempt + payload
// + CRC + primer, six trits per byte).
func strandLen(fwd, rev string, tagLen, shardSize int) int {
	return len(fwd) + codecLen(tagLen, shardSize) + len(rev)
}

// dataStrandLen is strandLen specialised to data strands' fixed tag width.
func dataStrandLen(fwd, rev string, shardSize int) int {
	return strandLen(fwd, rev, DataTagLen, shardSize)
}

func codecLen(tagLen, shardSize int) int {
	return 6 * (tagLen + 7 + shardSize + 4)
}

// Compile runs the full encode chain and returns the archive text.
func Compile(payload []byte, p Params) ([]byte, error) {
	p = p.withDefaults()

	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, herrors.Wrap(err, herrors.IoError, "generating archive salt")
	}

	compressed, err := compress.Compress(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	encrypted := p.Password != ""
	overhead := 0
	if encrypted {
		overhead = crypt.Overhead
	}
	blockCipherSize := p.Data * p.ShardSize
	blockPlainSize := blockCipherSize - overhead
	if blockPlainSize <= 0 {
		return nil, herrors.New(herrors.ParameterMismatch, "shard size %d too small for D=%d with encryption overhead %d", p.ShardSize, p.Data, overhead)
	}

	stream := make([]byte, 8, 8+len(compressed))
	binary.BigEndian.PutUint64(stream[0:8], uint64(len(compressed)))
	stream = append(stream, compressed...)
	if rem := len(stream) % blockPlainSize; rem != 0 {
		stream = append(stream, make([]byte, blockPlainSize-rem)...)
	}
	totalBlocks := len(stream) / blockPlainSize

	h := Header{
		CompressionKind: compressionZstd,
		Salt:            salt,
		Data:            p.Data,
		Parity:          p.Parity,
		ShardSize:       p.ShardSize,
		TagLen:          DataTagLen,
		Tag:             p.Tag,
		PrimerFwd:       p.PrimerFwd,
		PrimerRev:       p.PrimerRev,
		TotalBlocks:     totalBlocks,
	}
	h.StrandLen = dataStrandLen(p.PrimerFwd, p.PrimerRev, p.ShardSize)
	h.StrandCount = MetaData + MetaParity + totalBlocks*(p.Data+p.Parity)

	var aead *crypt.Cipher
	if encrypted {
		h.EncryptionKind = encryptionAES256GCM
		h.KDF = crypt.DefaultKDFParams
		key := crypt.DeriveKey(p.Password, salt[:], h.KDF)
		aead, err = crypt.New(key, salt[:])
		if err != nil {
			return nil, err
		}
	} else {
		h.EncryptionKind = encryptionNone
	}
	headerBytes := h.Encode()

	dataCodec, err := erasure.New(p.Data, p.Parity, p.ShardSize)
	if err != nil {
		return nil, err
	}
	dataCfg := frame.Config{PrimerFwd: p.PrimerFwd, PrimerRev: p.PrimerRev, TagLen: DataTagLen}
	tagBytes := make([]byte, DataTagLen)
	copy(tagBytes, p.Tag)

	blockStrands := make([][]frame.Strand, totalBlocks)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobCount(p.Jobs))
	for b := 0; b < totalBlocks; b++ {
		b := b
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			blockIndex := uint32(b + 1)
			plain := stream[b*blockPlainSize : (b+1)*blockPlainSize]
			var shardSource []byte
			if encrypted {
				shardSource = aead.SealBlock(blockIndex, plain, headerBytes)
			} else {
				shardSource = plain
			}
			shards, err := dataCodec.EncodeBlock(shardSource)
			if err != nil {
				return err
			}
			strands := make([]frame.Strand, len(shards))
			for s, shard := range shards {
				st, err := frame.Encode(dataCfg, salt[:], blockIndex, uint16(s), tagBytes, shard)
				if err != nil {
					return err
				}
				strands[s] = st
			}
			blockStrands[b] = strands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	metaStrands, err := encodeMeta(headerBytes)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	archive.WriteStrands(&out, "helix-meta", stringsOf(metaStrands))
	for b, bs := range blockStrands {
		archive.WriteStrands(&out, labelFor(p.Tag, b+1), stringsOf(bs))
	}
	return out.Bytes(), nil
}

func encodeMeta(headerBytes []byte) ([]frame.Strand, error) {
	budget := MetaData * MetaShardSize
	payload := make([]byte, 4, 4+len(headerBytes))
	binary.BigEndian.PutUint32(payload[0:4], uint32(len(headerBytes)))
	payload = append(payload, headerBytes...)
	if len(payload) > budget {
		return nil, herrors.New(herrors.MalformedArchive, "archive header (%d bytes) exceeds fixed meta-strand budget %d", len(payload), budget)
	}
	if rem := len(payload) % budget; rem != 0 {
		payload = append(payload, make([]byte, budget-rem)...)
	}

	metaCodec, err := erasure.New(MetaData, MetaParity, MetaShardSize)
	if err != nil {
		return nil, err
	}
	shards, err := metaCodec.EncodeBlock(payload)
	if err != nil {
		return nil, err
	}
	metaCfg := frame.Config{PrimerFwd: MetaPrimerFwd, PrimerRev: MetaPrimerRev, TagLen: MetaTagLen}
	strands := make([]frame.Strand, len(shards))
	for i, shard := range shards {
		st, err := frame.Encode(metaCfg, MetaSalt, 0, uint16(i), MetaTag, shard)
		if err != nil {
			return nil, err
		}
		strands[i] = st
	}
	return strands, nil
}

func stringsOf(strands []frame.Strand) []string {
	out := make([]string, len(strands))
	for i, s := range strands {
		out[i] = s.Bases
	}
	return out
}

func labelFor(tag string, block int) string {
	return "helix-" + tag + "-block" + strconv.Itoa(block)
}
