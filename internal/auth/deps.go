package auth

import (
	"context"
	"time"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
)

// UserStore is the credential-store contract the service depends on.
// *repository.UserRepo is the production implementation; tests substitute
// fakes.
type UserStore interface {
	// FindActiveByEmail looks a user up among non-deleted accounts.
	// Absent users return repository.ErrNotFound.
	FindActiveByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID returns the user including active/deleted flags.
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	// UpdateLoginAttempts writes the failed-attempt counter and lock
	// timestamp in a single statement.
	UpdateLoginAttempts(ctx context.Context, userID uint64, count int, lockUntil *time.Time) error
	// ResetLoginAttempts clears the counter and lock, and stamps last_login.
	ResetLoginAttempts(ctx context.Context, userID uint64) error
}

// TokenStore is the refresh-token ledger contract (repository.TokenRepo in
// production).
type TokenStore interface {
	// Store revokes every live row for the user and inserts the new hash,
	// atomically.
	Store(ctx context.Context, userID uint64, rawToken, deviceInfo string, expiresAt time.Time) error
	// Validate resolves a raw token to its live row, checking revocation,
	// expiry and owner liveness.  Misses are reported with the repository
	// sentinels (ErrNotFound, ErrExpired, ErrOwnerInactive).
	Validate(ctx context.Context, rawToken string) (*model.RefreshToken, error)
	// Revoke marks the matching row revoked; no matching row is a no-op.
	Revoke(ctx context.Context, userID uint64, rawToken string) error
}

// TokenIssuer signs and verifies the two token families.  Implemented by
// token.Issuer; verification failures are reported as ErrTokenExpired or
// ErrTokenInvalid.
type TokenIssuer interface {
	IssueAccess(id model.Identity) (string, time.Time, error)
	IssueRefresh(id model.Identity) (string, time.Time, error)
	VerifyAccess(token string) (model.Identity, error)
	VerifyRefresh(token string) (model.Identity, error)
}

// Auditor receives one structured record per auth attempt.  Implementations
// must be fire-and-forget: a failing audit sink never fails the operation.
type Auditor interface {
	Record(ctx context.Context, action, module string, userID uint64, ip, outcome, message string)
}
