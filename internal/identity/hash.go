// ABOUTME: Password digest helper shared by signup, login, and seeding
// ABOUTME: SHA-256 hex, matching the digests in existing stored profiles

package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the lowercase hex SHA-256 digest of plaintext. The
// digest is deterministic and unsalted: login compares digests for equality,
// and profiles exported from older clients must keep verifying.
func HashPassword(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
