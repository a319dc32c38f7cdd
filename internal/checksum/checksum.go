// Package checksum computes content digests for watched files.
package checksum

import (
	"crypto/sha256"
	"io"
	"os"
)

// Size is the length in bytes of a digest produced by this package.
const Size = sha256.Size

// File computes the SHA-256 digest of the file at path.
// If limit is greater than zero, at most limit bytes from the start of the
// file are hashed; otherwise the whole file is streamed.
//
// If the file cannot be opened or read, the previous digest prev is returned
// unchanged. A transient failure (file briefly locked, network share
// hiccup) must not look like a content change to callers comparing digests.
func File(path string, limit int64, prev []byte) []byte {
	f, err := os.Open(path)
	if err != nil {
		return prev
	}
	defer f.Close()

	h := sha256.New()
	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit)
	}
	if _, err := io.Copy(h, r); err != nil {
		return prev
	}
	return h.Sum(nil)
}

// Equal reports whether two digests are identical.
// Two empty digests compare equal; an empty digest never equals a
// non-empty one, so a path whose baseline could not be read reports a
// change on the first successful read.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
