package pipeline

import (
	"encoding/binary"

	"github.com/helixarc/helix/internal/erasure"
	"github.com/helixarc/helix/internal/frame"
	"github.com/helixarc/helix/internal/herrors"
)

// metaConfig is the fixed frame.Config every archive's header is written
// with, regardless of the archive's own data-strand parameters.
var metaConfig = frame.Config{PrimerFwd: MetaPrimerFwd, PrimerRev: MetaPrimerRev, TagLen: MetaTagLen}

// maxHeaderGroupTrials bounds the combinatorial search in groupHeaders. A
// soup this wide (many independently compiled archives, each contributing
// a full candidate set at every meta shard index) is far past anything a
// real soup file holds; the search just stops early and returns whatever
// archives it already found rather than running away.
const maxHeaderGroupTrials = 100000

// headerGroup is one archive's self-consistent meta-strand set recovered
// from a pool of candidate lines. metaLines holds every raw line in the
// pool that belongs to this particular archive (not just the ones used to
// reconstruct it), so a caller can re-emit a fully redundant header block.
type headerGroup struct {
	header      Header
	headerBytes []byte
	metaLines   []string
}

// extractHeaders recovers every self-consistent archive header among
// lines' meta-strand candidates. Every archive's meta block is framed with
// the same compiled-in MetaPrimerFwd/MetaPrimerRev/MetaTag/MetaSalt
// (header.go), so in a soup holding strands from several independently
// compiled archives, candidates from all of them land in the very same
// shard-index buckets. Picking one candidate per index and discarding the
// rest — the obvious approach — just keeps whichever archive's strand for
// that index happened to be read last, silently merging unrelated
// archives' shards into one bogus header. Instead, candidates are grouped
// by which ones actually reconstruct together into a valid header.
func extractHeaders(lines []string) ([]headerGroup, error) {
	metaLen := strandLen(MetaPrimerFwd, MetaPrimerRev, MetaTagLen, MetaShardSize)
	total := MetaData + MetaParity

	buckets := make([]map[string][]string, total)
	for i := range buckets {
		buckets[i] = make(map[string][]string)
	}

	any := false
	for _, line := range candidateLines(lines, metaLen) {
		st, payload, ok := decodeStrand(metaConfig, MetaSalt, MetaTagLen, MetaShardSize, line)
		if !ok {
			continue
		}
		if int(st.ShardIndex) < 0 || int(st.ShardIndex) >= total {
			continue
		}
		any = true
		key := string(payload)
		buckets[st.ShardIndex][key] = append(buckets[st.ShardIndex][key], line)
	}
	if !any {
		return nil, herrors.New(herrors.MalformedArchive, "SEQUENCE GAP: no archive header strands found")
	}

	metaCodec, err := erasure.New(MetaData, MetaParity, MetaShardSize)
	if err != nil {
		return nil, err
	}

	groups := groupHeaders(buckets, total, metaCodec)
	if len(groups) == 0 {
		return nil, herrors.New(herrors.MalformedArchive, "SEQUENCE GAP: no self-consistent archive header found")
	}
	return groups, nil
}

// groupHeaders tries every combination of one candidate per shard index,
// MetaData indices at a time, across every MetaData-sized subset of
// populated indices. A combination that reconstructs and decodes to a
// valid header is one archive; once its full plaintext payload is known,
// its shards are re-derived deterministically (the RS codec has no
// randomness) to recover every meta-strand line it actually contributed,
// not just the ones the winning combination happened to use.
func groupHeaders(buckets []map[string][]string, total int, metaCodec *erasure.Codec) []headerGroup {
	var populated []int
	for i := 0; i < total; i++ {
		if len(buckets[i]) > 0 {
			populated = append(populated, i)
		}
	}
	if len(populated) < MetaData {
		return nil
	}

	var groups []headerGroup
	seen := make(map[string]bool)
	trials := 0
	exceeded := false
	shards := make([][]byte, total)

	var forEachIndexSubset func(start int, chosen []int)
	forEachIndexSubset = func(start int, chosen []int) {
		if exceeded {
			return
		}
		if len(chosen) == MetaData {
			forEachCandidate(chosen, 0, buckets, shards, metaCodec, &groups, seen, &trials, &exceeded)
			return
		}
		for i := start; i < len(populated); i++ {
			forEachIndexSubset(i+1, append(chosen, populated[i]))
		}
	}
	forEachIndexSubset(0, nil)
	return groups
}

func forEachCandidate(chosenIdx []int, level int, buckets []map[string][]string, shards [][]byte, metaCodec *erasure.Codec, groups *[]headerGroup, seen map[string]bool, trials *int, exceeded *bool) {
	if *exceeded {
		return
	}
	if level == len(chosenIdx) {
		*trials++
		if *trials > maxHeaderGroupTrials {
			*exceeded = true
			return
		}
		tryReconstructHeader(shards, buckets, metaCodec, groups, seen)
		return
	}
	idx := chosenIdx[level]
	for key := range buckets[idx] {
		shards[idx] = []byte(key)
		forEachCandidate(chosenIdx, level+1, buckets, shards, metaCodec, groups, seen, trials, exceeded)
	}
	shards[idx] = nil
}

func tryReconstructHeader(shards [][]byte, buckets []map[string][]string, metaCodec *erasure.Codec, groups *[]headerGroup, seen map[string]bool) {
	payload, err := metaCodec.Reconstruct(shards)
	if err != nil {
		return
	}
	if len(payload) < 4 {
		return
	}
	n := binary.BigEndian.Uint32(payload[0:4])
	if int(n) > len(payload)-4 {
		return
	}
	headerBytes := append([]byte(nil), payload[4:4+n]...)
	h, err := DecodeHeader(headerBytes)
	if err != nil {
		return
	}
	key := string(headerBytes)
	if seen[key] {
		return
	}

	expectedShards, err := metaCodec.EncodeBlock(payload)
	if err != nil {
		return
	}
	seen[key] = true
	*groups = append(*groups, headerGroup{
		header:      h,
		headerBytes: headerBytes,
		metaLines:   collectMetaLines(buckets, expectedShards),
	})
}

func collectMetaLines(buckets []map[string][]string, expectedShards [][]byte) []string {
	var out []string
	for i, shard := range expectedShards {
		if i >= len(buckets) {
			break
		}
		if lines, ok := buckets[i][string(shard)]; ok {
			out = append(out, lines...)
		}
	}
	return out
}
