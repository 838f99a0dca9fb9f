// Package token issues and verifies the two JWT families used by the API.
// Access and refresh tokens carry distinct claim shapes, distinct expiries
// and are signed with distinct secrets, so possession of one kind never
// lets a caller forge the other.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naxapedev/adminpanelBackend-ag-master/internal/auth"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/config"
	"github.com/naxapedev/adminpanelBackend-ag-master/internal/model"
)

// AccessClaims is the claim set of a short-lived access token.
type AccessClaims struct {
	UserID    uint64   `json:"user_id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims is the minimal claim set of a refresh token.
type RefreshClaims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies both token families.  It implements
// auth.TokenIssuer.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration

	now func() time.Time // injectable clock
}

// NewIssuer builds an Issuer from config.  Identical secrets are refused:
// the split is what keeps a leaked refresh secret from forging access
// tokens and vice versa.
func NewIssuer(cfg config.Config) (*Issuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("token: signing secrets must be set")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		now:           time.Now,
	}, nil
}

// AccessExpiry returns the configured access token validity window.
func (i *Issuer) AccessExpiry() time.Duration { return i.accessExpiry }

// RefreshExpiry returns the configured refresh token validity window.
func (i *Issuer) RefreshExpiry() time.Duration { return i.refreshExpiry }

// IssueAccess signs an access token for the identity and returns the token
// with its expiry instant.
func (i *Issuer) IssueAccess(id model.Identity) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.accessExpiry)
	claims := &AccessClaims{
		UserID:    id.UserID,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Roles:     id.Roles.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// IssueRefresh signs a refresh token for the identity and returns the
// token with its expiry instant.  The raw string is handed to the client;
// the ledger keeps only its hash.
func (i *Issuer) IssueRefresh(id model.Identity) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.refreshExpiry)
	claims := &RefreshClaims{
		UserID: id.UserID,
		Email:  id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, exp, nil
}

// VerifyAccess checks an access token and returns its identity claims.
// Expiry and structural failures come back as the distinct sentinels the
// handlers need to tell a client "refresh" apart from "log in again".
func (i *Issuer) VerifyAccess(raw string) (model.Identity, error) {
	var claims AccessClaims
	if err := i.parse(raw, &claims, i.accessSecret); err != nil {
		return model.Identity{}, err
	}
	return model.Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Roles:     rolesFromClaims(claims.Roles),
	}, nil
}

// VerifyRefresh checks a refresh token and returns its identity claims.
// This is only the structural half of refresh validation; the ledger
// lookup is a separate, independent gate.
func (i *Issuer) VerifyRefresh(raw string) (model.Identity, error) {
	var claims RefreshClaims
	if err := i.parse(raw, &claims, i.refreshSecret); err != nil {
		return model.Identity{}, err
	}
	return model.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func (i *Issuer) parse(raw string, claims jwt.Claims, secret []byte) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.ErrTokenExpired
		}
		return auth.ErrTokenInvalid
	}
	if !tok.Valid {
		return auth.ErrTokenInvalid
	}
	return nil
}

// rolesFromClaims trusts the tags as signed; the set was validated when
// the token was issued.
func rolesFromClaims(tags []string) model.RoleSet {
	if len(tags) == 0 {
		return nil
	}
	set := make(model.RoleSet, 0, len(tags))
	for _, t := range tags {
		set = append(set, model.Role(t))
	}
	return set
}
