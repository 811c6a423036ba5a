package pipeline

import (
	"bytes"

	"github.com/helixarc/helix/internal/archive"
	"github.com/helixarc/helix/internal/frame"
)

// Search implements molecular-soup tag retrieval: given a pool containing
// strands from any number of compiled archives, it finds the one archive
// whose own header carries the queried tag and re-renders its header plus
// its tagged data strands as a new, self-contained archive. Unlike
// Restore, Search trusts the matched header's own recorded primers/shard
// size — it isn't reproducing the "must know the right primer pair"
// access control, just re-sorting an existing pool by tag. A tag no
// archive in the pool carries ("ghost tag") is not an error: it yields an
// archive with zero base-bearing lines at all, which Restore will then
// (correctly) refuse with a SEQUENCE GAP.
func Search(archiveText []byte, tag string) ([]byte, error) {
	lines := archive.ParseBases(archiveText)
	groups, err := extractHeaders(lines)
	if err != nil {
		return nil, err
	}

	var matched *headerGroup
	for i := range groups {
		if groups[i].header.Tag == tag {
			matched = &groups[i]
			break
		}
	}

	var out bytes.Buffer
	if matched == nil {
		return out.Bytes(), nil
	}

	header := matched.header
	dataCfg := frame.Config{PrimerFwd: header.PrimerFwd, PrimerRev: header.PrimerRev, TagLen: header.TagLen}
	strandLength := dataStrandLen(header.PrimerFwd, header.PrimerRev, header.ShardSize)

	var matches []string
	for _, line := range candidateLines(lines, strandLength) {
		st, _, ok := decodeStrand(dataCfg, header.Salt[:], header.TagLen, header.ShardSize, line)
		if !ok {
			continue
		}
		if !tagMatches(st.TagBytes, tag) {
			continue
		}
		matches = append(matches, line)
	}

	archive.WriteStrands(&out, "helix-meta", matched.metaLines)
	archive.WriteStrands(&out, "helix-"+tag+"-match", matches)
	return out.Bytes(), nil
}
