package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/utils"
)

// TokenRepo is the refresh-token ledger.  It stores only SHA-256 hashes
// and enforces the single-active-session invariant: storing a new token
// revokes every live row the user still has.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store revokes all live rows for the user and inserts the new hash within
// one transaction, so two near-simultaneous logins cannot both leave a
// live row behind.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, rawToken, deviceInfo string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin token rotation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID); err != nil {
		return fmt.Errorf("revoke prior tokens: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, device_info, issued_at, expires_at) VALUES (?,?,?,NOW(),?)",
		userID, utils.HashRefreshRaw(rawToken), deviceInfo, expiresAt.UTC()); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit token rotation: %w", err)
	}
	return nil
}

// Validate resolves a raw token to its ledger row.  The join to users is
// the second, independent liveness check: a structurally valid token for a
// revoked session or a dead account must still be rejected here.  Misses
// come back as ErrNotFound (absent or revoked), ErrExpired, or
// ErrOwnerInactive; the service layer maps them to its taxonomy.
func (r *TokenRepo) Validate(ctx context.Context, rawToken string) (*model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
		isActive  bool
		isDeleted bool
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT rt.id, rt.user_id, rt.device_info, rt.issued_at, rt.expires_at, rt.revoked_at, u.is_active, u.is_deleted
		 FROM refresh_tokens rt JOIN users u ON u.id = rt.user_id
		 WHERE rt.token_hash=? LIMIT 1`,
		utils.HashRefreshRaw(rawToken)).
		Scan(&t.ID, &t.UserID, &t.DeviceInfo, &t.IssuedAt, &t.ExpiresAt, &revokedAt, &isActive, &isDeleted)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if revokedAt.Valid {
		return nil, ErrNotFound
	}
	// Closed boundary: a token presented exactly at its expiry instant is
	// already expired.
	if !time.Now().UTC().Before(t.ExpiresAt) {
		return nil, ErrExpired
	}
	if isDeleted || !isActive {
		return nil, ErrOwnerInactive
	}
	return &t, nil
}

// Revoke marks the matching row revoked.  A token that never existed or
// was already revoked is a no-op, not an error: logout is idempotent.
func (r *TokenRepo) Revoke(ctx context.Context, userID uint64, rawToken string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND token_hash=? AND revoked_at IS NULL",
		userID, utils.HashRefreshRaw(rawToken))
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
