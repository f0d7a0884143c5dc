package bitkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitkit"
	"github.com/hupe1980/bitkit/testutil"
)

// naiveRotate moves every bit individually: the bit at offset+i lands on
// offset+((i+k) mod length).
func naiveRotate(ba *bitkit.BitArray, offset, length uint64, amount int64) *bitkit.BitArray {
	out := ba.Clone()
	if length == 0 {
		return out
	}

	k := uint64(((amount % int64(length)) + int64(length)) % int64(length))
	for i := uint64(0); i < length; i++ {
		out.Set(offset+(i+k)%length, ba.Get(offset+i))
	}
	return out
}

func TestRotateMatchesNaive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	rng := testutil.NewRNG(4711)

	sizes := []uint64{1, 8, 63, 64, 65, 127, 128, 129, 1000, 1031}

	for _, size := range sizes {
		for range 200 {
			ba := rng.RandomBits(size)
			offset, length := rng.RandomRange(size)
			amount := rng.RandomAmount(length)

			want := naiveRotate(ba, offset, length, amount)
			ba.Rotate(offset, length, amount)

			require.True(t, ba.Equal(want),
				"size=%d offset=%d length=%d amount=%d", size, offset, length, amount)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for range 500 {
		ba := rng.RandomBits(1000)
		before := ba.Clone()
		offset, length := rng.RandomRange(1000)
		amount := rng.RandomAmount(length)

		ba.Rotate(offset, length, amount)
		ba.Rotate(offset, length, -amount)

		require.True(t, ba.Equal(before),
			"offset=%d length=%d amount=%d", offset, length, amount)
	}
}

func TestRotatePreservesPopulation(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for range 500 {
		ba := rng.RandomBits(777)
		count := ba.Count()
		offset, length := rng.RandomRange(777)

		ba.Rotate(offset, length, rng.RandomAmount(length))

		require.Equal(t, count, ba.Count(), "offset=%d length=%d", offset, length)
	}
}

func TestReverseMatchesNaive(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for range 500 {
		ba := rng.RandomBits(1000)
		offset, length := rng.RandomRange(1000)

		want := ba.Clone()
		for i, j := offset, offset+length; i+1 < j; i, j = i+1, j-1 {
			want.Set(i, ba.Get(j-1))
			want.Set(j-1, ba.Get(i))
		}

		ba.Reverse(offset, length)

		require.True(t, ba.Equal(want), "offset=%d length=%d", offset, length)
	}
}

func TestRoaringRoundTripRandom(t *testing.T) {
	rng := testutil.NewRNG(4711)

	for _, size := range []uint64{0, 1, 64, 1000} {
		ba := rng.RandomBits(size)

		got, err := bitkit.FromRoaring(ba.ToRoaring(), size)
		require.NoError(t, err)
		require.True(t, ba.Equal(got), "size=%d", size)
	}
}
