package match

import (
	"github.com/minio/highwayhash"
)

var digestKey = []byte("nbcheck-cell-digest-key-32bytes!")

// codeDigest returns a stable 64-bit digest of a cell's code, used as the
// exact-equality group key during reconciliation.
func codeDigest(code string) uint64 {
	h, err := highwayhash.New64(digestKey)
	if err != nil {
		// key length is a compile-time constant, New64 cannot fail
		panic(err)
	}
	_, _ = h.Write([]byte(code))
	return h.Sum64()
}

// Score measures how dissimilar two code strings are. Zero means identical.
// The score rewards strings that share both a beginning and an end, so cells
// edited in the middle rank as most similar:
//
//	score = len(a) + len(b) - 2*(common_prefix + common_suffix)
//
// The suffix is measured on the remainders after the common prefix, so the
// two regions never overlap.
func Score(a, b string) int {
	p := commonPrefix(a, b)
	s := commonSuffix(a[p:], b[p:])
	return len(a) + len(b) - 2*(p+s)
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

func commonSuffix(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
