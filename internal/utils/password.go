package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is used when the configured cost is outside bcrypt's
// accepted range.
const DefaultBcryptCost = 12

// HashPassword returns a bcrypt hash using the given cost.  Costs outside
// bcrypt's valid range are replaced with DefaultBcryptCost rather than
// failing, so a misconfigured deployment still hashes at a safe cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares a bcrypt hash and a plain password.  Any failure,
// including a malformed stored digest, reads as "verification failed" --
// callers never see a hashing error as a system fault.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
