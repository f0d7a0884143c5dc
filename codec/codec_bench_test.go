package codec

import (
	"bytes"
	"testing"
)

// benchPayload approximates a snapshot of a moderately sparse bit array:
// long zero runs broken up by set clusters.
func benchPayload() []byte {
	var buf bytes.Buffer
	for i := 0; i < 1024; i++ {
		buf.Write(make([]byte, 120))
		buf.Write([]byte{0xFF, 0x0F, 0xB2, 0x81, 0x00, 0xA5, 0x5A, 0x01})
	}
	return buf.Bytes()
}

func benchmarkCompress(b *testing.B, c Codec, payload []byte) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Compress(payload)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkDecompress(b *testing.B, c Codec, payload []byte) {
	b.Helper()

	compressed, err := c.Compress(payload)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Decompress(compressed, len(payload))
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func BenchmarkCompress(b *testing.B) {
	payload := benchPayload()

	for _, c := range []Codec{Raw(), Zstd(), LZ4()} {
		b.Run(c.Name(), func(b *testing.B) {
			benchmarkCompress(b, c, payload)
		})
	}
}

func BenchmarkDecompress(b *testing.B) {
	payload := benchPayload()

	for _, c := range []Codec{Raw(), Zstd(), LZ4()} {
		b.Run(c.Name(), func(b *testing.B) {
			benchmarkDecompress(b, c, payload)
		})
	}
}
