package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/repository"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/utils"
)

// Audit module tags, matching the document-store enum.
const (
	moduleLogin   = "login"
	moduleRefresh = "auth"
	moduleLogout  = "logout"
)

// Audit outcome tags, mirrored by the audit package so this package stays
// free of a dependency on the broker side.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Session is the result of a successful login or refresh: a sanitized
// identity plus both tokens with their expiry instants.
type Session struct {
	User             model.Identity
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Service orchestrates the login, refresh and logout flows over the
// injected stores.  All session state lives in the backing store; the
// service itself holds no cross-request mutable state.
type Service struct {
	users  UserStore
	tokens TokenStore
	issuer TokenIssuer
	audit  Auditor

	lockoutThreshold int
	lockoutDuration  time.Duration

	now func() time.Time // injectable clock
}

// NewService wires the flows.  threshold is the number of consecutive
// failed attempts that locks an account, lockFor how long the lock lasts.
func NewService(users UserStore, tokens TokenStore, issuer TokenIssuer, auditor Auditor, threshold int, lockFor time.Duration) *Service {
	if threshold < 1 {
		threshold = 5
	}
	if lockFor <= 0 {
		lockFor = 5 * time.Minute
	}
	return &Service{
		users:            users,
		tokens:           tokens,
		issuer:           issuer,
		audit:            auditor,
		lockoutThreshold: threshold,
		lockoutDuration:  lockFor,
		now:              time.Now,
	}
}

// Login verifies credentials and opens a new session.  The gates run in a
// fixed order and each one is final: unknown email never reveals itself,
// a locked account is rejected before the password is even checked, and a
// failed verify advances the lockout counter.
func (s *Service) Login(ctx context.Context, email, password, deviceInfo, ip string) (*Session, error) {
	u, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.record(ctx, moduleLogin, 0, ip, OutcomeFailure, "unknown account")
			return nil, ErrInvalidCredentials
		}
		return nil, StorageErr("find user", err)
	}

	now := s.now().UTC()
	if u.Locked(now) {
		s.record(ctx, moduleLogin, u.ID, ip, OutcomeFailure, "account locked")
		return nil, ErrAccountLocked
	}
	if !u.IsActive {
		s.record(ctx, moduleLogin, u.ID, ip, OutcomeFailure, "account inactive")
		return nil, ErrAccountInactive
	}

	if !utils.VerifyPassword(u.PasswordHash, password) {
		s.registerFailure(ctx, u, now)
		s.record(ctx, moduleLogin, u.ID, ip, OutcomeFailure, "wrong password")
		return nil, ErrInvalidCredentials
	}

	// Success clears lockout history unconditionally and stamps last_login.
	if err := s.users.ResetLoginAttempts(ctx, u.ID); err != nil {
		return nil, StorageErr("reset login attempts", err)
	}

	sess, err := s.openSession(ctx, u.Identity(), deviceInfo)
	if err != nil {
		return nil, err
	}
	s.record(ctx, moduleLogin, u.ID, ip, OutcomeSuccess, "login ok")
	return sess, nil
}

// Refresh exchanges a valid refresh token for a new token pair, rotating
// the ledger entry so the presented token cannot be replayed.
func (s *Service) Refresh(ctx context.Context, rawToken, ip string) (*Session, error) {
	// Structural check first: signature and JWT expiry.
	if _, err := s.issuer.VerifyRefresh(rawToken); err != nil {
		s.record(ctx, moduleRefresh, 0, ip, OutcomeFailure, "refresh token rejected: "+err.Error())
		return nil, err
	}

	// Independent ledger check: a structurally valid token that was
	// revoked or superseded must still die here.
	rec, err := s.tokens.Validate(ctx, rawToken)
	if err != nil {
		err = mapLedgerErr(err)
		s.record(ctx, moduleRefresh, 0, ip, OutcomeFailure, "refresh ledger rejected: "+err.Error())
		return nil, err
	}

	u, err := s.users.FindByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.record(ctx, moduleRefresh, rec.UserID, ip, OutcomeFailure, "account missing")
			return nil, ErrAccountInactive
		}
		return nil, StorageErr("find user", err)
	}
	if u.IsDeleted {
		s.record(ctx, moduleRefresh, u.ID, ip, OutcomeFailure, "account deleted")
		return nil, ErrAccountDeleted
	}
	if !u.IsActive {
		s.record(ctx, moduleRefresh, u.ID, ip, OutcomeFailure, "account inactive")
		return nil, ErrAccountInactive
	}

	sess, err := s.openSession(ctx, u.Identity(), rec.DeviceInfo)
	if err != nil {
		return nil, err
	}
	s.record(ctx, moduleRefresh, u.ID, ip, OutcomeSuccess, "token refreshed")
	return sess, nil
}

// Logout revokes the presented refresh token.  No presented token is a
// no-op success, not an error.
func (s *Service) Logout(ctx context.Context, userID uint64, rawToken, ip string) error {
	if rawToken == "" {
		s.record(ctx, moduleLogout, userID, ip, OutcomeSuccess, "no refresh token presented")
		return nil
	}
	if err := s.tokens.Revoke(ctx, userID, rawToken); err != nil {
		return StorageErr("revoke token", err)
	}
	s.record(ctx, moduleLogout, userID, ip, OutcomeSuccess, "logged out")
	return nil
}

// ValidateAccess resolves a bearer token to a live identity.  The store
// re-check is what makes deactivation take effect before the token's
// natural expiry, at the cost of one lookup per request.
func (s *Service) ValidateAccess(ctx context.Context, rawToken string) (model.Identity, error) {
	claims, err := s.issuer.VerifyAccess(rawToken)
	if err != nil {
		return model.Identity{}, err
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Identity{}, ErrAccountDeleted
		}
		return model.Identity{}, StorageErr("find user", err)
	}
	if u.IsDeleted {
		return model.Identity{}, ErrAccountDeleted
	}
	if !u.IsActive {
		return model.Identity{}, ErrAccountInactive
	}
	// Identity comes from the live record, not the claims, so role and
	// name changes are picked up immediately.
	return u.Identity(), nil
}

// openSession issues a token pair and persists the refresh hash, which in
// turn revokes any prior live session for the user.
func (s *Service) openSession(ctx context.Context, id model.Identity, deviceInfo string) (*Session, error) {
	access, accessExp, err := s.issuer.IssueAccess(id)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.issuer.IssueRefresh(id)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Store(ctx, id.UserID, refresh, deviceInfo, refreshExp); err != nil {
		return nil, err
	}
	return &Session{
		User:             id,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// registerFailure advances the lockout state machine after a failed
// verify.  Reaching the threshold locks the account and resets the
// counter; both fields change in one UPDATE so the transition is atomic.
// Counting may under-count under concurrent failures, which is tolerated:
// the auth endpoints are rate-limited upstream.
func (s *Service) registerFailure(ctx context.Context, u *model.User, now time.Time) {
	count := u.FailedAttempts + 1
	var lockUntil *time.Time
	if count >= s.lockoutThreshold {
		until := now.Add(s.lockoutDuration)
		lockUntil = &until
		count = 0
	}
	if err := s.users.UpdateLoginAttempts(ctx, u.ID, count, lockUntil); err != nil {
		// The login still fails with invalid credentials; only the
		// counter update is lost.
		log.Printf("auth: update login attempts for user %d failed: %v", u.ID, err)
	}
}

// mapLedgerErr translates the repository's ledger sentinels into the
// user-facing taxonomy; anything unexpected is a storage fault.
func mapLedgerErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrRefreshTokenInvalid
	case errors.Is(err, repository.ErrExpired):
		return ErrRefreshTokenExpired
	case errors.Is(err, repository.ErrOwnerInactive):
		return ErrAccountInactive
	default:
		return StorageErr("validate token", err)
	}
}

func (s *Service) record(ctx context.Context, module string, userID uint64, ip, outcome, message string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, "auth", module, userID, ip, outcome, message)
}
