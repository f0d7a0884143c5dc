// Package codec centralizes snapshot payload compression.
//
// Bitkit treats codec selection as a breaking-change boundary: persisted
// snapshots store the codec name in their header, so files written with one
// codec remain readable after the default changes.
package codec

import (
	"errors"
	"fmt"
)

// Codec compresses and decompresses byte payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Compress returns a freshly allocated compressed form of src.
	Compress(src []byte) ([]byte, error)

	// Decompress expands src into exactly dstSize bytes. A result of any
	// other length is an error; callers know the expected size from the
	// snapshot header.
	Decompress(src []byte, dstSize int) ([]byte, error)

	Name() string
}

// ErrUnknownCodec is returned by ByName for codec names this build does not
// provide.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// ByName returns a built-in codec by its stable name.
//
// This is used by self-describing persistence formats that store the codec
// name in their header.
func ByName(name string) (Codec, error) {
	switch name {
	case "raw":
		return Raw(), nil
	case "zstd":
		return Zstd(), nil
	case "lz4":
		return LZ4(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

type rawCodec struct{}

// Raw returns the pass-through codec. It still copies, so a decompressed
// payload never aliases the caller's buffer.
func Raw() Codec { return rawCodec{} }

func (rawCodec) Compress(src []byte) ([]byte, error) {
	out := make([]byte, len(src))
	copy(out, src)
	return out, nil
}

func (rawCodec) Decompress(src []byte, dstSize int) ([]byte, error) {
	if len(src) != dstSize {
		return nil, fmt.Errorf("codec: raw payload is %d bytes, want %d", len(src), dstSize)
	}
	out := make([]byte, dstSize)
	copy(out, src)
	return out, nil
}

func (rawCodec) Name() string { return "raw" }
