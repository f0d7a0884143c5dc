package bitkit

// Rotate rotates the length bits starting at offset to the right by amount
// positions; bits that move past the end of the range wrap around to its
// start. A negative amount rotates left by -amount. It panics unless the
// range lies within the array.
//
// The rotation runs in place through the three-reversal identity: reversing
// the two parts on either side of the split point and then the whole range
// moves the back part to the front without auxiliary storage. For example:
//
//	ba := bitkit.MustParseBits("10110010")
//	ba.Rotate(0, 8, 1)
//	fmt.Println(ba) // 01011001
func (ba *BitArray) Rotate(offset, length uint64, amount int64) {
	ba.checkRange(offset, length)
	if length == 0 {
		return
	}
	k := amountMod(amount, length)
	if k == 0 {
		return
	}
	split := length - k
	ba.reverseRange(offset, split)
	ba.reverseRange(offset+split, k)
	ba.reverseRange(offset, length)
}

// amountMod reduces a signed rotation amount to [0, length). The native %
// keeps the dividend's sign, so negative amounts are folded explicitly; the
// arithmetic is arranged to stay exact at math.MinInt64, whose negation
// does not fit in int64.
func amountMod(amount int64, length uint64) uint64 {
	if amount >= 0 {
		return uint64(amount) % length
	}
	r := (uint64(-(amount+1)) + 1) % length
	if r == 0 {
		return 0
	}
	return length - r
}
