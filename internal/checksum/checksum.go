// Package checksum computes the content digests used to address blobs.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Shard returns the two-character shard prefix for a digest, used to bound
// blob directory fan-out. Short digests fall into a single catch-all bucket.
func Shard(digest string) string {
	if len(digest) < 2 {
		return "00"
	}
	return digest[:2]
}
