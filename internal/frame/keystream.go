package frame

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// deriveKeystream produces length bytes of pseudorandom keystream for the
// salted retry loop (§4.2), deterministic in (salt, block, shard, attempt).
// It is distinct from the archive-level AEAD key in internal/crypt: this
// keystream only whitens a shard's payload so the biological constraints
// (GC, homopolymer, primer collision) can be satisfied, and has nothing to
// do with confidentiality.
func deriveKeystream(salt []byte, blockIndex uint32, shardIndex uint16, attempt uint8, length int) []byte {
	key := sha256.Sum256(append([]byte("helix-keystream-key|"), salt...))

	var nonceSeed [8]byte
	binary.BigEndian.PutUint32(nonceSeed[0:4], blockIndex)
	binary.BigEndian.PutUint16(nonceSeed[4:6], shardIndex)
	nonceSeed[6] = attempt
	nonceDigest := sha256.Sum256(append([]byte("helix-keystream-nonce|"), nonceSeed[:]...))

	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonceDigest[:chacha20.NonceSize])
	if err != nil {
		// key/nonce are always fixed-size local values; a constructor
		// error here would indicate a programming mistake, not bad input.
		panic(err)
	}

	out := make([]byte, length)
	cipher.XORKeyStream(out, out)
	return out
}

// xorInPlace XORs dst with the keystream derived from the given frame
// coordinates, returning dst for convenience.
func xorInPlace(dst []byte, salt []byte, blockIndex uint32, shardIndex uint16, attempt uint8) []byte {
	ks := deriveKeystream(salt, blockIndex, shardIndex, attempt, len(dst))
	for i := range dst {
		dst[i] ^= ks[i]
	}
	return dst
}
