package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteStrandsParseBasesRoundTrip(t *testing.T) {
	bases := []string{"ACGTACGT", "GGGGCCCC", "ATATATAT"}
	var buf bytes.Buffer
	WriteStrands(&buf, "helix-test", bases)

	got := ParseBases(buf.Bytes())
	assert.Equal(t, bases, got)
}

func TestParseBasesToleratesGarbage(t *testing.T) {
	text := ">header line\nACGT\n\nthis is not dna\nACGTN\nACGTACGT\n>another\nGGCC\n"
	got := ParseBases([]byte(text))
	assert.Equal(t, []string{"ACGT", "ACGTACGT", "GGCC"}, got)
}

func TestParseBasesEmptyInput(t *testing.T) {
	assert.Empty(t, ParseBases(nil))
}
