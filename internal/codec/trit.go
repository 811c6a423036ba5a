// Package codec implements the constrained bijection between byte blocks
// and DNA base strings: trit expansion (§4.1 trit conversion) composed
// with the no-repeat trellis (trellis.go).
package codec

// TritsPerByte is the expansion rate: a byte (0..255) fits in six base-3
// digits (3^6 = 729 > 256) with room to spare.
const TritsPerByte = 6

// BytesToTrits expands each byte into TritsPerByte trits, least-significant
// trit first, by repeated "val mod 3, val /= 3".
func BytesToTrits(data []byte) []byte {
	trits := make([]byte, 0, len(data)*TritsPerByte)
	for _, b := range data {
		val := int(b)
		for i := 0; i < TritsPerByte; i++ {
			trits = append(trits, byte(val%3))
			val /= 3
		}
	}
	return trits
}

// TritsToBytes recombines groups of TritsPerByte trits into bytes by the
// inverse positional sum. len(trits) must be a multiple of TritsPerByte.
// A group summing above 255 never arises from BytesToTrits output; if seen,
// ok is false and the caller should treat the strand as corrupted.
func TritsToBytes(trits []byte) (data []byte, ok bool) {
	ok = true
	data = make([]byte, 0, len(trits)/TritsPerByte)
	pow3 := [TritsPerByte]int{1, 3, 9, 27, 81, 243}
	for i := 0; i+TritsPerByte <= len(trits); i += TritsPerByte {
		val := 0
		for j := 0; j < TritsPerByte; j++ {
			val += int(trits[i+j]) * pow3[j]
		}
		if val > 255 {
			ok = false
			val &= 0xff
		}
		data = append(data, byte(val))
	}
	return data, ok
}
