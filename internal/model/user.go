package model

import (
	"strings"
	"time"
)

// User mirrors the 'users' table.  PasswordHash never leaves the process:
// responses are built from Identity, not from this struct.
type User struct {
	ID             uint64
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string
	Roles          RoleSet
	IsActive       bool
	IsDeleted      bool
	FailedAttempts int
	LockedUntil    *time.Time
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked reports whether the account is locked out at the given instant.
// A lock in the past counts as cleared; there is no background job that
// resets the column.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// DisplayName joins the name parts for token claims and responses.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Identity returns the sanitized view of the account used in responses
// and token claims.
func (u *User) Identity() Identity {
	return Identity{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
	}
}

// Identity is the claim subset asserted by tokens and returned to clients.
type Identity struct {
	UserID    uint64  `json:"user_id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Roles     RoleSet `json:"roles"`
}

// DisplayName mirrors User.DisplayName for the sanitized view.
func (id Identity) DisplayName() string {
	return strings.TrimSpace(id.FirstName + " " + id.LastName)
}
