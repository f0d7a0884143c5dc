package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

type lz4Codec struct{}

// LZ4 returns the lz4 block codec. Lower ratio than zstd but very cheap to
// decompress, good for hot restore paths.
//
// Framing: a 4-byte little-endian compressed size precedes the block. Size
// 0 means the payload did not compress and is stored raw.
func LZ4() Codec { return lz4Codec{} }

func (lz4Codec) Compress(src []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(src))
	buf := make([]byte, 4+bound)

	n, err := lz4.CompressBlock(src, buf[4:], nil)
	if err != nil {
		return nil, fmt.Errorf("codec: lz4 compress: %w", err)
	}

	if n == 0 {
		// Incompressible
		out := make([]byte, 4+len(src))
		copy(out[4:], src)
		return out, nil
	}

	binary.LittleEndian.PutUint32(buf, uint32(n))
	return buf[:4+n], nil
}

func (lz4Codec) Decompress(src []byte, dstSize int) ([]byte, error) {
	if len(src) < 4 {
		return nil, errors.New("codec: lz4 payload too short for size prefix")
	}

	compressedSize := binary.LittleEndian.Uint32(src)
	block := src[4:]

	if compressedSize == 0 {
		if len(block) != dstSize {
			return nil, fmt.Errorf("codec: raw lz4 payload is %d bytes, want %d", len(block), dstSize)
		}
		out := make([]byte, dstSize)
		copy(out, block)
		return out, nil
	}

	if uint32(len(block)) != compressedSize {
		return nil, fmt.Errorf("codec: lz4 payload is %d bytes, size prefix says %d", len(block), compressedSize)
	}

	dst := make([]byte, dstSize)
	n, err := lz4.UncompressBlock(block, dst)
	if err != nil {
		return nil, fmt.Errorf("codec: lz4 decompress: %w", err)
	}
	if n != dstSize {
		return nil, fmt.Errorf("codec: decompressed %d bytes, want %d", n, dstSize)
	}
	return dst, nil
}

func (lz4Codec) Name() string { return "lz4" }
