package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshRaw returns the SHA-256 hash of a raw refresh token as a hex
// string.  Only this hash is stored in the database, so a leaked ledger
// cannot be replayed to refresh sessions.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
