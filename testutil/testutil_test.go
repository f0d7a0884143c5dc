package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomBits(t *testing.T) {
	rng := NewRNG(4711)

	ba := rng.RandomBits(1000)

	assert.Equal(t, uint64(1000), ba.Len())

	// A uniform 1000-bit array is essentially never all zeros or all ones.
	count := ba.Count()
	assert.Greater(t, count, uint64(0))
	assert.Less(t, count, uint64(1000))
}

func TestFillMasksPadding(t *testing.T) {
	rng := NewRNG(4711)

	ba := rng.RandomBits(13)

	raw := ba.Bytes()
	assert.Len(t, raw, 2)
	assert.Zero(t, raw[1]>>5, "bits beyond the logical size must stay zero")
}

func TestRandomRange(t *testing.T) {
	rng := NewRNG(4711)

	for range 1000 {
		offset, length := rng.RandomRange(257)
		assert.Less(t, offset, uint64(257))
		assert.LessOrEqual(t, offset+length, uint64(257))
	}

	offset, length := rng.RandomRange(0)
	assert.Zero(t, offset)
	assert.Zero(t, length)
}

func TestRandomAmountCoversBothSigns(t *testing.T) {
	rng := NewRNG(4711)

	var negative, beyond bool

	for range 1000 {
		amount := rng.RandomAmount(64)
		if amount < 0 {
			negative = true
		}
		if amount > 64 || amount < -64 {
			beyond = true
		}
	}

	assert.True(t, negative, "expected negative amounts")
	assert.True(t, beyond, "expected amounts beyond the range length")
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	b1 := rng.RandomBits(512)

	rng.Reset()
	b2 := rng.RandomBits(512)

	assert.True(t, b1.Equal(b2))
}
