package pipeline

import (
	"strings"

	"github.com/helixarc/helix/internal/frame"
	"github.com/helixarc/helix/internal/viterbi"
)

// decodeStrand strips cfg's primers from line (rejecting it if they don't
// match or the length is wrong), C1/C2-decodes the middle, and on a CRC
// miss runs one Viterbi repair pass (C7) before giving up. ok is false for
// any line that isn't a recoverable strand of this configuration.
func decodeStrand(cfg frame.Config, salt []byte, tagLen, shardSize int, line string) (st frame.Strand, payload []byte, ok bool) {
	if len(line) <= len(cfg.PrimerFwd)+len(cfg.PrimerRev) {
		return frame.Strand{}, nil, false
	}
	if !strings.HasPrefix(line, cfg.PrimerFwd) || !strings.HasSuffix(line, cfg.PrimerRev) {
		return frame.Strand{}, nil, false
	}
	middle := line[len(cfg.PrimerFwd) : len(line)-len(cfg.PrimerRev)]

	if st, payload, err := frame.Decode(cfg, salt, tagLen, shardSize, middle); err == nil {
		return st, payload, true
	}

	repaired, _ := viterbi.Repair(middle)
	st, payload, err := frame.Decode(cfg, salt, tagLen, shardSize, repaired)
	if err != nil {
		return frame.Strand{}, nil, false
	}
	st.Substituted = true
	return st, payload, true
}

// candidateLines filters raw base lines down to those with exactly the
// given strand length, the cheap pre-filter before the expensive C1/C2
// decode attempt.
func candidateLines(lines []string, length int) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if len(l) == length {
			out = append(out, l)
		}
	}
	return out
}

func tagMatches(tagField []byte, tag string) bool {
	trimmed := strings.TrimRight(string(tagField), "\x00")
	return trimmed == tag
}
