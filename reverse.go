package bitkit

import "math/bits"

// Reverse reverses, in place, the order of the length bits starting at
// offset: the bit formerly at offset+i ends up at offset+length-1-i.
// It panics unless the range lies within the array.
//
// While the remaining span holds at least two full words, the words at both
// ends are loaded, bit-reversed with bits.Reverse64, and stored at each
// other's position. Swapping the chunks while reversing each chunk's
// interior is exactly a reversal of the combined region, so the bulk of the
// work runs one word at a time; the sub-128-bit tail finishes with bit-pair
// swaps.
func (ba *BitArray) Reverse(offset, length uint64) {
	ba.checkRange(offset, length)
	ba.reverseRange(offset, length)
}

func (ba *BitArray) reverseRange(offset, length uint64) {
	left, right := offset, offset+length
	for right-left >= 128 {
		lo := ba.word(left)
		hi := ba.word(right - 64)
		ba.putWord(right-64, bits.Reverse64(lo))
		ba.putWord(left, bits.Reverse64(hi))
		left += 64
		right -= 64
	}
	for left+1 < right {
		l, r := ba.bit(left), ba.bit(right-1)
		ba.setBit(left, r)
		ba.setBit(right-1, l)
		left++
		right--
	}
}
