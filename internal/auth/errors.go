// Package auth implements the session-lifecycle core: credential
// verification, token issuance and rotation, refresh-token revocation and
// brute-force lockout.  Handlers translate the sentinel errors defined
// here into HTTP responses; nothing in this package writes HTTP itself.
package auth

import (
	"errors"
	"fmt"
)

// Expected authentication outcomes.  These map 1:1 to user-facing
// responses and are safe to surface (they never reveal whether an email
// is registered or why exactly a token was rejected beyond its class).
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountLocked       = errors.New("account temporarily locked")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrAccountDeleted      = errors.New("account no longer exists")
	ErrTokenMissing        = errors.New("access token required")
	ErrTokenInvalid        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ErrStorageUnavailable wraps any backing-store failure.  Handlers surface
// it as a generic 500; the wrapped cause stays in server-side logs only.
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageErr wraps a store failure in ErrStorageUnavailable while keeping
// the cause on the chain for logging.
func StorageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
