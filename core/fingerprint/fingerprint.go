// Package fingerprint provides BLAKE3 content fingerprinting used by the
// round-trip validator and the API server to compare and tag content
// without retaining it.
package fingerprint

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Sum computes the hex-encoded BLAKE3 hash of the given data.
func Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// SumString computes the hex-encoded BLAKE3 hash of a string.
func SumString(s string) string {
	return Sum([]byte(s))
}

// Equal reports whether two byte slices have identical content, compared
// by fingerprint.
func Equal(a, b []byte) bool {
	return Sum(a) == Sum(b)
}
