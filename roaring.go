package bitkit

import (
	"fmt"
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ToRoaring returns a roaring bitmap holding the positions of every set
// bit. The scan runs a word at a time, peeling set bits with
// bits.TrailingZeros64.
func (ba *BitArray) ToRoaring() *roaring64.Bitmap {
	bm := roaring64.NewBitmap()
	i := uint64(0)
	if ba.size >= 64 {
		for ; i <= ba.size-64; i += 64 {
			w := ba.word(i)
			for w != 0 {
				bm.Add(i + uint64(bits.TrailingZeros64(w)))
				w &= w - 1
			}
		}
	}
	for ; i < ba.size; i++ {
		if ba.bit(i) {
			bm.Add(i)
		}
	}
	return bm
}

// FromRoaring builds a BitArray of the given size whose set bits are the
// positions held in bm. It returns an error if bm holds a position at or
// beyond size.
func FromRoaring(bm *roaring64.Bitmap, size uint64) (*BitArray, error) {
	if !bm.IsEmpty() && bm.Maximum() >= size {
		return nil, fmt.Errorf("bitkit: roaring position %d out of range for %d-bit array", bm.Maximum(), size)
	}
	ba := New(size)
	it := bm.Iterator()
	for it.HasNext() {
		ba.setBit(it.Next(), true)
	}
	return ba, nil
}
