// Package snapshot persists bit arrays as checksummed, compressed binary
// snapshots.
//
// A snapshot is self-describing: the header carries the format version, the
// bit count, and the name of the codec that compressed the payload, so any
// build that knows the codec can read it back. A trailing CRC32 covers the
// whole file.
//
// Write and Read work on streams; Encode and Decode are the byte-slice
// conveniences. Manager adds versioned snapshots on top of a
// blobstore.Store.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/bitkit"
	"github.com/hupe1980/bitkit/codec"
)

// Write encodes ba as one snapshot onto w.
//
// Layout (little-endian):
//
//	magic "BKS1" | version u16 | flags u16 | bitSize u64 |
//	payloadLen u32 | codecNameLen u8 | codecName | payload | crc32 u32
//
// The CRC32 (IEEE) covers every byte before it. The uncompressed payload
// length is not stored; it follows from bitSize.
func Write(w io.Writer, ba *bitkit.BitArray, opts ...Option) error {
	o := applyOptions(opts)
	return write(w, ba, o)
}

func write(w io.Writer, ba *bitkit.BitArray, o options) error {
	payload, err := o.codec.Compress(ba.Bytes())
	if err != nil {
		return fmt.Errorf("snapshot: compress payload: %w", err)
	}
	if len(payload) > math.MaxUint32 {
		return fmt.Errorf("snapshot: compressed payload of %d bytes exceeds format limit", len(payload))
	}
	name := o.codec.Name()
	if len(name) == 0 || len(name) > math.MaxUint8 {
		return fmt.Errorf("snapshot: codec name %q does not fit header", name)
	}

	cw := newChecksumWriter(w)

	header := make([]byte, 0, headerFixedLen+len(name))
	header = append(header, snapshotMagic[:]...)
	var fixed [17]byte
	binary.LittleEndian.PutUint16(fixed[0:2], formatVersion)
	binary.LittleEndian.PutUint16(fixed[2:4], 0) // flags, reserved
	binary.LittleEndian.PutUint64(fixed[4:12], ba.Len())
	binary.LittleEndian.PutUint32(fixed[12:16], uint32(len(payload)))
	fixed[16] = uint8(len(name))
	header = append(header, fixed[:]...)
	header = append(header, name...)

	if _, err := cw.Write(header); err != nil {
		return fmt.Errorf("snapshot: write header: %w", err)
	}
	if _, err := cw.Write(payload); err != nil {
		return fmt.Errorf("snapshot: write payload: %w", err)
	}

	// The checksum trailer is written outside the checksummed region.
	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], cw.Sum())
	if _, err := w.Write(crc[:]); err != nil {
		return fmt.Errorf("snapshot: write checksum: %w", err)
	}

	o.logger.Debug("snapshot encoded",
		"bits", ba.Len(),
		"codec", name,
		"payload_bytes", len(payload),
	)
	return nil
}

// Read decodes one snapshot from r. The codec is selected by the name
// stored in the header; codec.ErrUnknownCodec surfaces if this build does
// not provide it.
func Read(r io.Reader, opts ...Option) (*bitkit.BitArray, error) {
	o := applyOptions(opts)
	return read(r, o)
}

func read(r io.Reader, o options) (*bitkit.BitArray, error) {
	cr := newChecksumReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read magic: %w", err)
	}
	if magic != snapshotMagic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic[:])
	}

	var fixed [17]byte
	if _, err := io.ReadFull(cr, fixed[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}
	version := binary.LittleEndian.Uint16(fixed[0:2])
	if version != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	// fixed[2:4] flags, reserved
	bitSize := binary.LittleEndian.Uint64(fixed[4:12])
	payloadLen := binary.LittleEndian.Uint32(fixed[12:16])
	nameLen := int(fixed[16])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(cr, name); err != nil {
		return nil, fmt.Errorf("snapshot: read codec name: %w", err)
	}
	c, err := codec.ByName(string(name))
	if err != nil {
		return nil, err
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(cr, payload); err != nil {
		return nil, fmt.Errorf("snapshot: read payload: %w", err)
	}

	sum := cr.Sum()
	var crc [4]byte
	if _, err := io.ReadFull(r, crc[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read checksum: %w", err)
	}
	if want := binary.LittleEndian.Uint32(crc[:]); sum != want {
		return nil, fmt.Errorf("%w: expected 0x%08x, got 0x%08x", ErrChecksumMismatch, want, sum)
	}

	rawLen := bitSize / 8
	if bitSize%8 != 0 {
		rawLen++
	}
	if rawLen > math.MaxInt32 {
		return nil, fmt.Errorf("snapshot: bit size %d exceeds format limit", bitSize)
	}

	raw, err := c.Decompress(payload, int(rawLen))
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress payload: %w", err)
	}

	ba := bitkit.New(bitSize)
	ba.SetBytes(raw)

	o.logger.Debug("snapshot decoded",
		"bits", bitSize,
		"codec", string(name),
		"payload_bytes", len(payload),
	)
	return ba, nil
}

// Encode returns ba as a snapshot byte slice.
func Encode(ba *bitkit.BitArray, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, ba, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot byte slice produced by Encode.
func Decode(data []byte, opts ...Option) (*bitkit.BitArray, error) {
	return Read(bytes.NewReader(data), opts...)
}
