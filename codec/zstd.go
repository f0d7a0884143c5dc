package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Encoder/decoder pools so concurrent snapshot writers do not fight over a
// single zstd state.
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

type zstdCodec struct{}

// Zstd returns the zstd codec. Best ratio on sparse or patterned bit
// arrays, still fast enough for the write path.
func Zstd() Codec { return zstdCodec{} }

func (zstdCodec) Compress(src []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(src, nil), nil
}

func (zstdCodec) Decompress(src []byte, dstSize int) ([]byte, error) {
	dec := getZstdDecoder()
	defer putZstdDecoder(dec)

	out, err := dec.DecodeAll(src, make([]byte, 0, dstSize))
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decompress: %w", err)
	}
	if len(out) != dstSize {
		return nil, fmt.Errorf("codec: decompressed %d bytes, want %d", len(out), dstSize)
	}
	return out, nil
}

func (zstdCodec) Name() string { return "zstd" }

// Default is the codec used when none is configured.
//
// NOTE: This affects newly-written snapshots only. Existing files are
// self-describing and are opened by selecting the codec by name.
var Default Codec = Zstd()
