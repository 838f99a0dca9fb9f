package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a single authorization tag attached to a user account.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleDriver     Role = "driver"
	RoleDispatcher Role = "dispatcher"
	RoleManager    Role = "manager"
)

var knownRoles = map[Role]bool{
	RoleSuperAdmin: true,
	RoleAdmin:      true,
	RoleDriver:     true,
	RoleDispatcher: true,
	RoleManager:    true,
}

// RoleSet is the set of role tags carried by a user.  The database column
// stores it as a JSON-encoded array of strings; older rows may hold a bare
// string instead, which decodes as a one-element set.  Business logic only
// ever sees the typed set.
type RoleSet []Role

// DecodeRoles parses the raw role column value into a RoleSet.  A JSON
// array decodes element-wise; anything else is treated as a single bare
// tag.  Unknown tags are rejected so a corrupted column cannot grant an
// unintended role.
func DecodeRoles(raw string) (RoleSet, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var tags []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return nil, fmt.Errorf("decode roles: %w", err)
		}
	} else {
		tags = []string{raw}
	}
	set := make(RoleSet, 0, len(tags))
	for _, t := range tags {
		r := Role(strings.ToLower(strings.TrimSpace(t)))
		if !knownRoles[r] {
			return nil, fmt.Errorf("decode roles: unknown role %q", t)
		}
		if !set.Contains(r) {
			set = append(set, r)
		}
	}
	return set, nil
}

// Encode serializes the set back to the JSON array form used by the column.
func (s RoleSet) Encode() (string, error) {
	tags := make([]string, len(s))
	for i, r := range s {
		tags[i] = string(r)
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode roles: %w", err)
	}
	return string(b), nil
}

// Contains reports whether the set carries the given role.
func (s RoleSet) Contains(r Role) bool {
	for _, have := range s {
		if have == r {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the set carries at least one of the given roles.
func (s RoleSet) ContainsAny(roles ...Role) bool {
	for _, r := range roles {
		if s.Contains(r) {
			return true
		}
	}
	return false
}

// Strings returns the tags as plain strings, for claims and responses.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}
