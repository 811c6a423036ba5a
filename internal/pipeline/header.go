package pipeline

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/helixarc/helix/internal/crypt"
	"github.com/helixarc/helix/internal/herrors"
)

const headerMagic = "HELIX001"

// Compression/encryption kind tags recorded in the header (§3, §4.4/§4.5:
// "Dynamic dispatch... Model them as tagged variants with fixed arms").
const (
	compressionNone byte = 0
	compressionZstd byte = 1

	encryptionNone      byte = 0
	encryptionAES256GCM byte = 1
)

// Meta-strand constants (§3 "Archive header"). These are fixed regardless
// of the user's chosen data D/P/S/primers/tag, so the header can always be
// located and reconstructed before any of those are known. See
// DESIGN.md for the rationale (fixed budget avoids a chicken-and-egg
// dependency between the header's own shard size and its contents).
const (
	MetaData      = 3
	MetaParity    = 9
	MetaShardSize = 128
	MetaTagLen    = 16

	MetaPrimerFwd = "GATTACAGGATCCGATTACA"
	MetaPrimerRev = "TGTAATCGGATCCTGTAATC"
)

// MetaTag is the reserved, all-zero tag field that marks a strand as part
// of the archive header rather than a data block.
var MetaTag = make([]byte, MetaTagLen)

// MetaSalt is a fixed, public constant used only to derive the salted
// retry keystream (§4.2) for meta strands. The real archive salt lives
// inside the header payload itself, so framing the header with the
// archive salt would be circular: the keystream whitens the header
// content purely to satisfy GC/homopolymer constraints, not for secrecy,
// so a fixed constant is as good as a random one here.
var MetaSalt = []byte("helix-meta-strand-fixed-salt-v1")

// Header is the archive-wide metadata recorded in the meta-strand block:
// everything a restore needs before it can touch a single data strand.
type Header struct {
	CompressionKind byte
	EncryptionKind  byte
	Salt            [16]byte
	KDF             crypt.KDFParams

	Data      int
	Parity    int
	ShardSize int
	StrandLen int
	TagLen    int

	Tag       string
	PrimerFwd string
	PrimerRev string

	TotalBlocks int
	StrandCount int
}

// Encode serialises the header to its canonical byte form — used both as
// the meta-strand payload and as the AEAD associated data for every block.
func (h Header) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(headerMagic)
	buf.WriteByte(h.CompressionKind)
	buf.WriteByte(h.EncryptionKind)
	buf.Write(h.Salt[:])

	writeUint32(&buf, h.KDF.TimeCost)
	writeUint32(&buf, h.KDF.MemoryKiB)
	buf.WriteByte(h.KDF.Parallelism)

	writeUint16(&buf, uint16(h.Data))
	writeUint16(&buf, uint16(h.Parity))
	writeUint32(&buf, uint32(h.ShardSize))
	writeUint32(&buf, uint32(h.StrandLen))
	writeUint16(&buf, uint16(h.TagLen))

	writeString(&buf, h.Tag)
	writeString(&buf, h.PrimerFwd)
	writeString(&buf, h.PrimerRev)

	writeUint32(&buf, uint32(h.TotalBlocks))
	writeUint32(&buf, uint32(h.StrandCount))

	return buf.Bytes()
}

// DecodeHeader inverts Encode.
func DecodeHeader(data []byte) (Header, error) {
	r := bytes.NewReader(data)
	magic := make([]byte, len(headerMagic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != headerMagic {
		return Header{}, herrors.New(herrors.MalformedArchive, "missing or corrupt archive header magic")
	}

	var h Header
	var err error
	readByte := func() byte {
		b, e := r.ReadByte()
		if e != nil && err == nil {
			err = e
		}
		return b
	}
	h.CompressionKind = readByte()
	h.EncryptionKind = readByte()
	if _, e := io.ReadFull(r, h.Salt[:]); e != nil {
		err = e
	}
	h.KDF.TimeCost = readUint32(r, &err)
	h.KDF.MemoryKiB = readUint32(r, &err)
	h.KDF.Parallelism = readByte()

	h.Data = int(readUint16(r, &err))
	h.Parity = int(readUint16(r, &err))
	h.ShardSize = int(readUint32(r, &err))
	h.StrandLen = int(readUint32(r, &err))
	h.TagLen = int(readUint16(r, &err))

	h.Tag = readString(r, &err)
	h.PrimerFwd = readString(r, &err)
	h.PrimerRev = readString(r, &err)

	h.TotalBlocks = int(readUint32(r, &err))
	h.StrandCount = int(readUint32(r, &err))

	if err != nil {
		return Header{}, herrors.Wrap(err, herrors.MalformedArchive, "decoding archive header")
	}
	return h, nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint16(buf, uint16(len(s)))
	buf.WriteString(s)
}

func readUint16(r *bytes.Reader, errp *error) uint16 {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil && *errp == nil {
		*errp = err
	}
	return binary.BigEndian.Uint16(b[:])
}

func readUint32(r *bytes.Reader, errp *error) uint32 {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil && *errp == nil {
		*errp = err
	}
	return binary.BigEndian.Uint32(b[:])
}

func readString(r *bytes.Reader, errp *error) string {
	n := readUint16(r, errp)
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil && *errp == nil {
		*errp = err
	}
	return string(b)
}
