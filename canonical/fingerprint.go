package canonical

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Algorithm selects the fingerprint computed over canonical form bytes. The
// choice is always caller-supplied; there is no hidden default.
type Algorithm string

const (
	// AlgRabin64 is the 64-bit Rabin fingerprint; cheap and good enough for
	// caching and schema resolution tables.
	AlgRabin64 Algorithm = "rabin64"
	// AlgMD5 is a 128-bit digest for applications needing lower collision
	// probability.
	AlgMD5 Algorithm = "md5"
	// AlgSHA256 is a 256-bit digest for the most collision-averse callers.
	AlgSHA256 Algorithm = "sha256"
)

// empty64 is the irreducible polynomial constant and the initial accumulator;
// conceptually a single one-bit is prepended to the message so leading zero
// bytes still perturb the fingerprint.
const empty64 = uint64(0xc15d213aa4d7a795)

var rabinTable [256]uint64

func init() {
	for i := range rabinTable {
		fp := uint64(i)
		for j := 0; j < 8; j++ {
			fp = (fp >> 1) ^ (empty64 & -(fp & 1))
		}
		rabinTable[i] = fp
	}
}

// Rabin64 computes the 64-bit Rabin fingerprint of the canonical bytes.
func Rabin64(data []byte) uint64 {
	fp := empty64
	for _, b := range data {
		fp = (fp >> 8) ^ rabinTable[(fp^uint64(b))&0xff]
	}
	return fp
}

// Fingerprint computes the digest of canonical bytes under the given
// algorithm. Rabin64 results are little-endian encoded to 8 bytes, matching
// the byte order used in single-object encodings.
func Fingerprint(alg Algorithm, data []byte) ([]byte, error) {
	switch alg {
	case AlgRabin64:
		var out [8]byte
		binary.LittleEndian.PutUint64(out[:], Rabin64(data))
		return out[:], nil
	case AlgMD5:
		sum := md5.Sum(data)
		return sum[:], nil
	case AlgSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("canonical: unknown fingerprint algorithm %q", alg)
	}
}
