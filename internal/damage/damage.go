// Package damage is the test-support collaborator that corrupts an archive
// the way dropout and sequencing noise would: deleting whole strands and
// substituting individual bases. It exists to let `helix simulate` exercise
// the erasure and Viterbi repair paths without a real synthesis run.
package damage

import (
	"bytes"
	"math/rand"

	"github.com/helixarc/helix/internal/archive"
	"github.com/helixarc/helix/internal/codec"
)

// Options configures a damage pass. DropoutPct is the probability (0..100)
// that any given strand is deleted outright; MutationFrac is the
// per-base substitution probability (0..1) applied to surviving strands.
type Options struct {
	DropoutPct   float64
	MutationFrac float64
	Rand         *rand.Rand // nil uses a new source seeded with 1
}

// Apply parses archiveText into lines, drops whole strands at DropoutPct,
// substitutes bases at MutationFrac on the survivors, and re-serialises the
// result. Header lines (">...") are dropped by the archive parser already;
// Apply only ever sees base lines and re-emits them without the original
// labels, since dropout/mutation is indifferent to which strand is which.
func Apply(archiveText []byte, opt Options) []byte {
	r := opt.Rand
	if r == nil {
		r = rand.New(rand.NewSource(1))
	}

	lines := archive.ParseBases(archiveText)
	survivors := make([]string, 0, len(lines))
	for _, line := range lines {
		if r.Float64()*100 < opt.DropoutPct {
			continue
		}
		survivors = append(survivors, mutate(line, opt.MutationFrac, r))
	}

	var out bytes.Buffer
	archive.WriteStrands(&out, "helix-damaged", survivors)
	return out.Bytes()
}

// mutate substitutes each base independently with probability frac,
// choosing uniformly among the three bases other than the original —
// never a no-op substitution.
func mutate(line string, frac float64, r *rand.Rand) string {
	if frac <= 0 {
		return line
	}
	b := []byte(line)
	for i := range b {
		if r.Float64() >= frac {
			continue
		}
		cur := baseIndex(b[i])
		offset := 1 + r.Intn(3)
		b[i] = codec.Bases[(cur+offset)%4]
	}
	return string(b)
}

func baseIndex(c byte) int {
	for i := 0; i < len(codec.Bases); i++ {
		if codec.Bases[i] == c {
			return i
		}
	}
	return 0
}
