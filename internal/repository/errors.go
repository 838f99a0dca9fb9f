// Package repository implements the credential store and the refresh-token
// ledger over database/sql.  Sentinel values let the service layer
// distinguish expected misses from storage faults without inspecting SQL
// errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  Callers decide
// how much of that fact is safe to surface (a login must not reveal
// whether an email exists).  The token ledger also uses it for revoked
// rows, which are indistinguishable from absent ones to a caller.
var ErrNotFound = errors.New("record not found")

// ErrExpired is returned by the token ledger for a row past its expiry.
var ErrExpired = errors.New("record expired")

// ErrOwnerInactive is returned by the token ledger when the owning account
// is deactivated or soft-deleted.
var ErrOwnerInactive = errors.New("owning account inactive")
