package bitkit

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"
)

// BitArray is a packed array of bits with a fixed length.
//
// Bits are stored eight per byte, least-significant bit first: bit i lives
// in byte i/8 at in-byte position i%8. The backing buffer is allocated one
// byte beyond the packed payload so that the misaligned 64-bit accessors
// used by the Reverse/Rotate fast path stay in bounds; see Uint64.
//
// A BitArray is owned by a single goroutine; it performs no locking.
type BitArray struct {
	buf  []byte // ceil(size/8)+1 bytes; bits at index >= size are zero
	size uint64
}

// New creates a BitArray holding size bits, all zero.
func New(size uint64) *BitArray {
	n := size/8 + 1
	if size%8 != 0 {
		n++
	}
	return &BitArray{
		buf:  make([]byte, n),
		size: size,
	}
}

// ParseBits builds a BitArray from a string of '0' and '1' characters, the
// first character becoming bit 0.
func ParseBits(s string) (*BitArray, error) {
	ba := New(uint64(len(s)))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			ba.setBit(uint64(i), true)
		case '0':
		default:
			return nil, fmt.Errorf("bitkit: invalid bit character %q at index %d", s[i], i)
		}
	}
	return ba, nil
}

// MustParseBits is like ParseBits but panics on invalid input.
func MustParseBits(s string) *BitArray {
	ba, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return ba
}

// Len returns the number of bits in the array.
func (ba *BitArray) Len() uint64 {
	return ba.size
}

// Get returns the value of bit i. It panics if i >= Len().
func (ba *BitArray) Get(i uint64) bool {
	ba.checkIndex(i)
	return ba.bit(i)
}

// Set stores v into bit i, leaving every other bit untouched.
// It panics if i >= Len().
func (ba *BitArray) Set(i uint64, v bool) {
	ba.checkIndex(i)
	ba.setBit(i, v)
}

// Uint64 returns the 64 bits starting at bit i, packed so that bit 0 of the
// result is bit i and bit 63 is bit i+63, regardless of byte alignment.
//
// It panics unless i+64 <= Len(). Together with the extra byte behind the
// payload this bound keeps the underlying nine-byte read legal even at the
// very end of the array.
func (ba *BitArray) Uint64(i uint64) uint64 {
	ba.checkWord(i)
	return ba.word(i)
}

// PutUint64 writes the 64 bits of v starting at bit i, bit 0 of v landing
// on bit i. No bit outside [i, i+64) is disturbed. Same precondition as
// Uint64.
func (ba *BitArray) PutUint64(i uint64, v uint64) {
	ba.checkWord(i)
	ba.putWord(i, v)
}

// Count returns the number of set bits.
func (ba *BitArray) Count() uint64 {
	var n int
	for _, b := range ba.buf {
		n += bits.OnesCount8(b)
	}
	return uint64(n)
}

// Bytes returns a copy of the packed payload: ceil(Len()/8) bytes,
// least-significant bit first within each byte.
func (ba *BitArray) Bytes() []byte {
	out := make([]byte, ba.payloadLen())
	copy(out, ba.buf)
	return out
}

// SetBytes replaces the array contents with the packed payload b.
// It panics unless len(b) == ceil(Len()/8). Bits of the final byte at
// index >= Len() are cleared.
func (ba *BitArray) SetBytes(b []byte) {
	n := ba.payloadLen()
	if uint64(len(b)) != n {
		panic(fmt.Sprintf("bitkit: payload of %d bytes does not fit %d-bit array (want %d bytes)", len(b), ba.size, n))
	}
	copy(ba.buf[:n], b)
	if r := ba.size % 8; r != 0 {
		ba.buf[n-1] &= byte(1<<r) - 1
	}
}

// Clone returns an independent copy of the array.
func (ba *BitArray) Clone() *BitArray {
	out := &BitArray{
		buf:  make([]byte, len(ba.buf)),
		size: ba.size,
	}
	copy(out.buf, ba.buf)
	return out
}

// Equal reports whether both arrays have the same length and the same bits.
func (ba *BitArray) Equal(other *BitArray) bool {
	if other == nil || ba.size != other.size {
		return false
	}
	return bytes.Equal(ba.buf[:ba.payloadLen()], other.buf[:other.payloadLen()])
}

// String renders the bits in index order, bit 0 first.
func (ba *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(int(ba.size))
	for i := uint64(0); i < ba.size; i++ {
		if ba.bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (ba *BitArray) payloadLen() uint64 {
	n := ba.size / 8
	if ba.size%8 != 0 {
		n++
	}
	return n
}

func (ba *BitArray) bit(i uint64) bool {
	return ba.buf[i/8]&(1<<(i%8)) != 0
}

func (ba *BitArray) setBit(i uint64, v bool) {
	if v {
		ba.buf[i/8] |= 1 << (i % 8)
	} else {
		ba.buf[i/8] &^= 1 << (i % 8)
	}
}

// word reads the 64 bits at i: the aligned word containing bit i plus the
// byte after it, shifted together. Callers must have checked i+64 <= size.
func (ba *BitArray) word(i uint64) uint64 {
	idx := i / 8
	k := i % 8
	lo := binary.LittleEndian.Uint64(ba.buf[idx:])
	if k == 0 {
		return lo
	}
	return lo>>k | uint64(ba.buf[idx+8])<<(64-k)
}

// putWord is the read-modify-write inverse of word: the low k bits of the
// first byte and the high bits of the byte past the span are preserved.
func (ba *BitArray) putWord(i uint64, v uint64) {
	idx := i / 8
	k := i % 8
	if k == 0 {
		binary.LittleEndian.PutUint64(ba.buf[idx:], v)
		return
	}
	lo := binary.LittleEndian.Uint64(ba.buf[idx:])
	lo = lo&(1<<k-1) | v<<k
	binary.LittleEndian.PutUint64(ba.buf[idx:], lo)
	ba.buf[idx+8] = ba.buf[idx+8]&^byte(1<<k-1) | byte(v>>(64-k))
}

func (ba *BitArray) checkIndex(i uint64) {
	if i >= ba.size {
		panic(fmt.Sprintf("bitkit: bit index %d out of range for %d-bit array", i, ba.size))
	}
}

func (ba *BitArray) checkWord(i uint64) {
	if ba.size < 64 || i > ba.size-64 {
		panic(fmt.Sprintf("bitkit: 64-bit word at bit %d overruns %d-bit array", i, ba.size))
	}
}

func (ba *BitArray) checkRange(offset, length uint64) {
	if length > ba.size || offset > ba.size-length {
		panic(fmt.Sprintf("bitkit: range offset=%d length=%d out of bounds for %d-bit array", offset, length, ba.size))
	}
}
