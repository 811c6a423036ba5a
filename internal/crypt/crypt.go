// Package crypt implements Helix's authenticated encryption layer (C4):
// AES-256-GCM keyed by an Argon2id-derived password key, with a nonce
// derived deterministically from (archive salt, block index) so every
// block gets a distinct nonce without needing to store one.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/argon2"

	"github.com/helixarc/helix/internal/herrors"
)

// KDFParams records the Argon2id cost parameters used to derive the AEAD
// key, so they travel in the archive header and restore can reproduce the
// same key from the password.
type KDFParams struct {
	TimeCost    uint32
	MemoryKiB   uint32
	Parallelism uint8
}

// DefaultKDFParams are conservative interactive-use Argon2id costs.
var DefaultKDFParams = KDFParams{TimeCost: 3, MemoryKiB: 64 * 1024, Parallelism: 4}

const keyLen = 32 // AES-256

// Overhead is the number of bytes an AEAD.Seal call adds beyond the
// plaintext (the GCM authentication tag).
const Overhead = 16

// Cipher performs per-block AES-256-GCM seal/open using a key derived once
// from the password and archive salt.
type Cipher struct {
	aead cipher.AEAD
	salt []byte
}

// DeriveKey runs Argon2id over password and salt with the given cost
// parameters.
func DeriveKey(password string, salt []byte, params KDFParams) []byte {
	return argon2.IDKey([]byte(password), salt, params.TimeCost, params.MemoryKiB, params.Parallelism, keyLen)
}

// New builds a Cipher from an already-derived key.
func New(key []byte, salt []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.DecryptionFailed, "constructing AES cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.DecryptionFailed, "constructing GCM mode")
	}
	return &Cipher{aead: aead, salt: salt}, nil
}

// nonce derives a 12-byte GCM nonce unique to this (salt, blockIndex) pair.
func (c *Cipher) nonce(blockIndex uint32) []byte {
	var seed [4]byte
	binary.BigEndian.PutUint32(seed[:], blockIndex)
	digest := sha256.Sum256(append(append([]byte("helix-aead-nonce|"), c.salt...), seed[:]...))
	return digest[:c.aead.NonceSize()]
}

// SealBlock encrypts plaintext for blockIndex, with associatedData (the
// archive header's canonical bytes) authenticated but not encrypted.
// The returned slice is len(plaintext)+Overhead bytes: ciphertext followed
// by the GCM tag, so callers that need a fixed-size shard-aligned result
// can rely on that exact length.
func (c *Cipher) SealBlock(blockIndex uint32, plaintext, associatedData []byte) []byte {
	return c.aead.Seal(nil, c.nonce(blockIndex), plaintext, associatedData)
}

// OpenBlock decrypts and authenticates a block sealed by SealBlock. Failure
// (wrong password or tampering) is reported as DecryptionFailed, with the
// exact substring "Decryption failed" the test suite greps for.
func (c *Cipher) OpenBlock(blockIndex uint32, ciphertext, associatedData []byte) ([]byte, error) {
	plaintext, err := c.aead.Open(nil, c.nonce(blockIndex), ciphertext, associatedData)
	if err != nil {
		return nil, herrors.Wrap(err, herrors.DecryptionFailed, "Decryption failed for block %d", blockIndex)
	}
	return plaintext, nil
}
