package snapshot_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitkit"
	"github.com/hupe1980/bitkit/codec"
	"github.com/hupe1980/bitkit/snapshot"
	"github.com/hupe1980/bitkit/testutil"
)

func TestRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(4711)

	arrays := map[string]*bitkit.BitArray{
		"empty":      bitkit.New(0),
		"partial":    bitkit.MustParseBits("1011001010110"),
		"aligned":    rng.RandomBits(1024),
		"misaligned": rng.RandomBits(1031),
	}

	for _, c := range []codec.Codec{codec.Raw(), codec.Zstd(), codec.LZ4()} {
		t.Run(c.Name(), func(t *testing.T) {
			for name, ba := range arrays {
				data, err := snapshot.Encode(ba, snapshot.WithCodec(c))
				require.NoError(t, err, name)

				got, err := snapshot.Decode(data)
				require.NoError(t, err, name)
				assert.True(t, ba.Equal(got), name)
			}
		})
	}
}

func TestHeaderLayout(t *testing.T) {
	ba := bitkit.MustParseBits("10110010")

	data, err := snapshot.Encode(ba, snapshot.WithCodec(codec.Raw()))
	require.NoError(t, err)

	// magic | version | flags | bitSize | payloadLen | codecNameLen |
	// codecName | payload | crc32
	require.Len(t, data, 4+2+2+8+4+1+3+1+4)

	assert.Equal(t, []byte("BKS1"), data[:4])
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[4:6]))
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[6:8]))
	assert.Equal(t, uint64(8), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(t, byte(3), data[20])
	assert.Equal(t, []byte("raw"), data[21:24])
	assert.Equal(t, byte(0b01001101), data[24])

	wantCRC := crc32.ChecksumIEEE(data[:len(data)-4])
	assert.Equal(t, wantCRC, binary.LittleEndian.Uint32(data[len(data)-4:]))
}

// fixCRC recomputes the trailer after a test mutates snapshot bytes.
func fixCRC(data []byte) {
	sum := crc32.ChecksumIEEE(data[:len(data)-4])
	binary.LittleEndian.PutUint32(data[len(data)-4:], sum)
}

func TestDecodeRejectsCorruption(t *testing.T) {
	ba := bitkit.MustParseBits("1011001010110010")

	pristine, err := snapshot.Encode(ba, snapshot.WithCodec(codec.Raw()))
	require.NoError(t, err)

	t.Run("BadMagic", func(t *testing.T) {
		data := bytes.Clone(pristine)
		data[0] = 'X'
		fixCRC(data)

		_, err := snapshot.Decode(data)
		require.ErrorIs(t, err, snapshot.ErrInvalidMagic)
	})

	t.Run("FutureVersion", func(t *testing.T) {
		data := bytes.Clone(pristine)
		binary.LittleEndian.PutUint16(data[4:6], 99)
		fixCRC(data)

		_, err := snapshot.Decode(data)
		require.ErrorIs(t, err, snapshot.ErrUnsupportedVersion)
	})

	t.Run("UnknownCodec", func(t *testing.T) {
		data := bytes.Clone(pristine)
		copy(data[21:24], "xyz")
		fixCRC(data)

		_, err := snapshot.Decode(data)
		require.ErrorIs(t, err, codec.ErrUnknownCodec)
	})

	t.Run("FlippedPayloadBit", func(t *testing.T) {
		data := bytes.Clone(pristine)
		data[24] ^= 0x10

		_, err := snapshot.Decode(data)
		require.ErrorIs(t, err, snapshot.ErrChecksumMismatch)
	})

	t.Run("FlippedCRC", func(t *testing.T) {
		data := bytes.Clone(pristine)
		data[len(data)-1] ^= 0xFF

		_, err := snapshot.Decode(data)
		require.ErrorIs(t, err, snapshot.ErrChecksumMismatch)
	})

	t.Run("Truncated", func(t *testing.T) {
		for _, n := range []int{0, 3, 10, len(pristine) - 1} {
			_, err := snapshot.Decode(pristine[:n])
			require.Error(t, err, "truncated to %d bytes", n)
		}
	})
}

func TestWriteStreams(t *testing.T) {
	ba := testutil.NewRNG(4711).RandomBits(4096)

	var buf bytes.Buffer
	require.NoError(t, snapshot.Write(&buf, ba))

	// Reading one byte at a time exercises the io.ReadFull paths.
	got, err := snapshot.Read(iotest.OneByteReader(&buf))
	require.NoError(t, err)
	assert.True(t, ba.Equal(got))
}

func TestDefaultCodecIsZstd(t *testing.T) {
	ba := bitkit.New(256)

	data, err := snapshot.Encode(ba)
	require.NoError(t, err)

	nameLen := int(data[20])
	assert.Equal(t, "zstd", string(data[21:21+nameLen]))
}
