package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noiseBytes(n int, seed uint64) []byte {
	out := make([]byte, n)
	x := seed
	for i := range out {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		out[i] = byte(x)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	payloads := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "tiny", data: []byte{0xB2}},
		{name: "compressible", data: bytes.Repeat([]byte{0x00, 0xFF, 0x81}, 4096)},
		{name: "incompressible", data: noiseBytes(4096, 88172645463325252)},
	}

	for _, c := range []Codec{Raw(), Zstd(), LZ4()} {
		t.Run(c.Name(), func(t *testing.T) {
			for _, tt := range payloads {
				compressed, err := c.Compress(tt.data)
				require.NoError(t, err, tt.name)

				got, err := c.Decompress(compressed, len(tt.data))
				require.NoError(t, err, tt.name)
				assert.Equal(t, tt.data, got, tt.name)
			}
		})
	}
}

func TestCompressionShrinksPatternedData(t *testing.T) {
	payload := bytes.Repeat([]byte{0x00, 0xFF, 0x81}, 4096)

	for _, c := range []Codec{Zstd(), LZ4()} {
		compressed, err := c.Compress(payload)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(payload), c.Name())
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	for _, c := range []Codec{Raw(), Zstd(), LZ4()} {
		compressed, err := c.Compress([]byte("0123456789abcdef"))
		require.NoError(t, err)

		_, err = c.Decompress(compressed, 17)
		assert.Error(t, err, c.Name())
	}
}

func TestDecompressDoesNotAliasInput(t *testing.T) {
	src := []byte{1, 2, 3, 4}

	for _, c := range []Codec{Raw(), LZ4()} {
		compressed, err := c.Compress(src)
		require.NoError(t, err)

		got, err := c.Decompress(compressed, len(src))
		require.NoError(t, err)

		compressed[len(compressed)-1] ^= 0xFF
		assert.Equal(t, []byte{1, 2, 3, 4}, got, c.Name())
	}
}

func TestByName(t *testing.T) {
	for _, want := range []string{"raw", "zstd", "lz4"} {
		c, err := ByName(want)
		require.NoError(t, err)
		assert.Equal(t, want, c.Name())
	}

	_, err := ByName("snappy")
	require.ErrorIs(t, err, ErrUnknownCodec)
}

func TestDefault(t *testing.T) {
	assert.Equal(t, "zstd", Default.Name())
}

func TestLZ4IncompressibleFallback(t *testing.T) {
	// High-entropy input forces the raw storage path.
	noise := noiseBytes(256, 2463534242)

	compressed, err := LZ4().Compress(noise)
	require.NoError(t, err)
	require.Len(t, compressed, 4+len(noise))
	assert.Equal(t, []byte{0, 0, 0, 0}, compressed[:4])

	got, err := LZ4().Decompress(compressed, len(noise))
	require.NoError(t, err)
	assert.Equal(t, noise, got)
}
