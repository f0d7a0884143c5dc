// Package bitkit provides packed bit arrays with word-accelerated in-place
// range rotation.
//
// A BitArray stores one bit per logical element, eight per byte,
// least-significant bit first. Its centerpiece is Rotate: an arbitrary-
// distance cyclic shift of any contiguous sub-range of bits, realized in
// place with the three-reversal identity and a fast path that moves 64 bits
// per step instead of one.
//
// # Quick Start
//
//	ba := bitkit.New(1000)
//	ba.Set(3, true)
//	ba.Set(999, true)
//
//	ba.Rotate(0, ba.Len(), 1)    // whole array right by one
//	ba.Rotate(128, 512, -37)     // sub-range left by 37
//	ba.Reverse(0, ba.Len())      // mirror everything
//
// Readable round-trips for small arrays:
//
//	ba = bitkit.MustParseBits("10110010")
//	ba.Rotate(0, 8, 1)
//	fmt.Println(ba) // 01011001
//
// # Word Access
//
// Uint64 and PutUint64 expose the packed storage 64 bits at a time at any
// bit offset, aligned or not. They are what make the rotation fast path
// possible and are useful on their own for bulk I/O:
//
//	w := ba.Uint64(100)      // bits 100..163, bit 100 in the low position
//	ba.PutUint64(100, w>>1)
//
// # Persistence
//
// The snapshot package serializes arrays into a checksummed binary format
// with pluggable compression (see codec), and its Manager keeps versioned
// snapshots in any blobstore backend (in-memory, local disk, S3, MinIO):
//
//	store := blobstore.NewLocalStore("./data")
//	mgr := snapshot.NewManager(store)
//	mgr.Save(ctx, "sieve", ba)
//	ba2, _ := mgr.Load(ctx, "sieve")
//
// # Interop
//
// ToRoaring and FromRoaring convert between a BitArray and a roaring
// bitmap, for handoff to systems that speak compressed posting lists.
//
// A BitArray is a single-owner structure: operations take no locks and run
// to completion on the caller's goroutine. Out-of-range indexes panic; see
// the method docs for each contract.
package bitkit
