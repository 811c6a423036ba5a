// Package archive implements the permissive FASTA-like archive parser and
// writer (C8): it tolerates garbage, concatenated files, and annotation
// lines, keeping only the lines that are plausibly DNA strands.
package archive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// WriteStrands appends one ">label\n<bases>\n" pair per strand to w.
func WriteStrands(w io.Writer, label string, bases []string) {
	for i, b := range bases {
		fmt.Fprintf(w, ">%s-%d\n%s\n", label, i, b)
	}
}

// ParseBases scans data line by line and returns every line that is
// entirely composed of A/C/G/T bases, discarding header lines (leading
// '>'), blank lines, and any line containing a character outside the
// alphabet. Length filtering against a particular strand length L is the
// caller's responsibility, since L can differ between the meta block and
// data blocks within a single archive.
func ParseBases(data []byte) []string {
	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}
		if isBases(line) {
			out = append(out, line)
		}
	}
	return out
}

func isBases(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}
