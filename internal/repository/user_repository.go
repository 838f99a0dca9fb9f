package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
)

const userColumns = "id,email,first_name,last_name,password_hash,role,is_active,is_deleted,failed_attempts,locked_until,last_login,created_at,updated_at"

// UserRepo reads and writes the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// FindActiveByEmail fetches a non-deleted user by email.  The value is
// passed through as given; matching semantics belong to the column
// collation, not to this layer.  The is_active flag is returned, not
// filtered on, so the caller can distinguish an inactive account from an
// unknown one.
func (r *UserRepo) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? AND is_deleted=0 LIMIT 1",
		email)
	return scanUser(row)
}

// FindByID fetches a user by id including the active/deleted flags.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id)
	return scanUser(row)
}

// UpdateLoginAttempts writes the failed-attempt counter and lock timestamp
// in one statement.  The lock transition itself is therefore atomic even
// when concurrent failures race on the counter.
func (r *UserRepo) UpdateLoginAttempts(ctx context.Context, userID uint64, count int, lockUntil *time.Time) error {
	var lock sql.NullTime
	if lockUntil != nil {
		lock = sql.NullTime{Time: lockUntil.UTC(), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts=?, locked_until=? WHERE id=?",
		count, lock, userID)
	return err
}

// ResetLoginAttempts clears lockout state after a successful login and
// stamps last_login.
func (r *UserRepo) ResetLoginAttempts(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_attempts=0, locked_until=NULL, last_login=NOW() WHERE id=?",
		userID)
	return err
}

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u           model.User
		rawRoles    sql.NullString
		lockedUntil sql.NullTime
		lastLogin   sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&rawRoles, &u.IsActive, &u.IsDeleted, &u.FailedAttempts,
		&lockedUntil, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rawRoles.Valid {
		roles, err := model.DecodeRoles(rawRoles.String)
		if err != nil {
			return nil, fmt.Errorf("user %d: %w", u.ID, err)
		}
		u.Roles = roles
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		u.LockedUntil = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
