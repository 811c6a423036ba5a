package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := DeriveKey("correct horse battery staple", salt, DefaultKDFParams)
	c, err := New(key, salt)
	require.NoError(t, err)

	plain := []byte("a block of archive plaintext, exactly shard-aligned")
	ad := []byte("associated header bytes")

	ciphertext := c.SealBlock(7, plain, ad)
	assert.Len(t, ciphertext, len(plain)+Overhead)

	got, err := c.OpenBlock(7, ciphertext, ad)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestOpenRejectsWrongPassword(t *testing.T) {
	salt := []byte("0123456789abcdef")
	ad := []byte("header")
	plain := []byte("secret payload")

	sealer, err := New(DeriveKey("right-password", salt, DefaultKDFParams), salt)
	require.NoError(t, err)
	ciphertext := sealer.SealBlock(1, plain, ad)

	opener, err := New(DeriveKey("wrong-password", salt, DefaultKDFParams), salt)
	require.NoError(t, err)
	_, err = opener.OpenBlock(1, ciphertext, ad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Decryption failed")
}

func TestOpenRejectsTamperedAssociatedData(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := DeriveKey("password", salt, DefaultKDFParams)
	c, err := New(key, salt)
	require.NoError(t, err)

	ciphertext := c.SealBlock(2, []byte("payload"), []byte("original header"))
	_, err = c.OpenBlock(2, ciphertext, []byte("tampered header"))
	require.Error(t, err)
}
