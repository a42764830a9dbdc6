package models

import "strings"

const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
	RoleReader = "reader"
)

// roleOrder is the canonical rendering order of a role set.
var roleOrder = []string{RoleReader, RoleAuthor, RoleAdmin}

// precedence decides the primary role, highest first.
var precedence = []string{RoleAdmin, RoleAuthor, RoleReader}

// IsValidRole reports whether role is one of admin, author or reader.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuthor, RoleReader:
		return true
	}
	return false
}

// RoleSet is a deduplicated set of known roles. Unknown names are dropped.
type RoleSet map[string]struct{}

// NewRoleSet builds a set from role names, trimming and lowercasing them.
func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if IsValidRole(r) {
			set[r] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}

// Primary returns the highest role by precedence admin > author > reader.
// When the set is empty the legacy role is used if valid, then reader.
func (s RoleSet) Primary(legacy string) string {
	for _, r := range precedence {
		if s.Has(r) {
			return r
		}
	}
	legacy = strings.ToLower(strings.TrimSpace(legacy))
	if IsValidRole(legacy) {
		return legacy
	}
	return RoleReader
}

// Slice lists the roles in canonical order.
func (s RoleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for _, r := range roleOrder {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RoleSet) String() string {
	return strings.Join(s.Slice(), ",")
}
