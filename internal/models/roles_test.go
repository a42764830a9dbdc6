package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleSetPrimaryPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		roles  string
		legacy string
		want   string
	}{
		{"all roles pick admin", "reader,author,admin", "reader", RoleAdmin},
		{"author over reader", "reader,author", "reader", RoleAuthor},
		{"reader only", "reader", "admin", RoleReader},
		{"malformed entries are ignored", " Author ,, superuser", "", RoleAuthor},
		{"empty set falls back to legacy", "", "author", RoleAuthor},
		{"unknown legacy falls back to reader", "", "editor", RoleReader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRoleSet(strings.Split(tt.roles, ",")...).Primary(tt.legacy))
		})
	}
}

func TestRoleSetStringIsCanonicalAndDeduplicated(t *testing.T) {
	set := NewRoleSet("author", "reader", "author", "READER")
	assert.Equal(t, "reader,author", set.String())
	assert.True(t, set.Has(RoleAuthor))
	assert.False(t, set.Has(RoleAdmin))
}

func TestUserPrimaryRoleUsesJoinedRoles(t *testing.T) {
	u := &User{Role: RoleReader, Roles: []UserRole{{Role: RoleReader}, {Role: RoleAdmin}}}
	assert.Equal(t, RoleAdmin, u.PrimaryRole())
	assert.Equal(t, "reader,admin", u.RoleString())

	legacy := &User{Role: RoleAuthor}
	assert.Equal(t, RoleAuthor, legacy.PrimaryRole())
}

func TestUserIsLocked(t *testing.T) {
	assert.True(t, (&User{Status: StatusBlocked}).IsLocked())
	assert.True(t, (&User{Status: StatusSuspended}).IsLocked())
	assert.False(t, (&User{Status: StatusActive}).IsLocked())
}
