// Package idgen generates random identifiers for wallet entries, checkout
// sessions, and request tracing.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
)

// WithPrefix returns prefix + 24 hex chars of cryptographically random data,
// e.g. "we_" for wallet entries or "cs_" for checkout sessions. The prefix
// makes IDs self-describing in logs and database rows.
func WithPrefix(prefix string) string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		panic("idgen: crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}
