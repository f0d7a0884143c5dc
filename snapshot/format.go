package snapshot

import "errors"

var (
	// snapshotMagic identifies bitkit snapshot files (ASCII "BKS1").
	snapshotMagic = [4]byte{'B', 'K', 'S', '1'}

	formatVersion = uint16(1)
)

// headerFixedLen is the byte length of the header up to and excluding the
// variable-length codec name:
// magic(4) version(2) flags(2) bitSize(8) payloadLen(4) codecNameLen(1).
const headerFixedLen = 21

var (
	ErrInvalidMagic       = errors.New("snapshot: invalid magic number")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")
	ErrChecksumMismatch   = errors.New("snapshot: checksum mismatch")
)
