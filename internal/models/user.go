package models

import (
	"strings"
	"time"
)

const (
	StatusActive    = "active"
	StatusBlocked   = "blocked"
	StatusSuspended = "suspended"
)

// User is an account of the site. Role membership lives in user_roles;
// Role is the legacy single-role column kept as a login fallback.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Username    string     `json:"username" gorm:"uniqueIndex;size:100"`
	Email       string     `json:"email" gorm:"uniqueIndex;size:255"`
	Password    string     `json:"-"` // bcrypt hash
	Role        string     `json:"role" gorm:"size:20;default:reader"`
	Status      string     `json:"status" gorm:"size:20;default:active"`
	Country     *string    `json:"country"`
	State       *string    `json:"state"`
	City        *string    `json:"city"`
	Gender      *string    `json:"gender"`
	ProfilePic  *string    `json:"profile_pic"`
	FirebaseUID *string    `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	Roles       []UserRole `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserRole is one membership of a user in a role.
type UserRole struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	Role      string    `json:"role" gorm:"primaryKey;size:20"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleSet returns the user's roles as a deduplicated set.
func (u *User) RoleSet() RoleSet {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return NewRoleSet(names...)
}

// RoleString renders the role set as a comma list, e.g. "reader,author".
func (u *User) RoleString() string {
	return u.RoleSet().String()
}

// PrimaryRole picks the session role for the user.
func (u *User) PrimaryRole() string {
	return u.RoleSet().Primary(u.Role)
}

// IsLocked reports whether the account may not sign in.
func (u *User) IsLocked() bool {
	return u.Status == StatusBlocked || u.Status == StatusSuspended
}

// CityName returns the city or an empty string.
func (u *User) CityName() string {
	return deref(u.City)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for blank input, otherwise a pointer to the trimmed value.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// UserWithStats is a user row joined with the number of stories authored.
type UserWithStats struct {
	User
	StoryCount int64 `json:"story_count"`
}

// UserStats is the summary shown on the admin user list.
type UserStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Authors int64 `json:"authors"`
	Blocked int64 `json:"blocked"`
}

type RegisterRequest struct {
	Username        string `form:"username" json:"username" validate:"required,min=3,max=100"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required"`
	Country         string `form:"country" json:"country"`
	State           string `form:"state" json:"state"`
	City            string `form:"city" json:"city"`
	Gender          string `form:"gender" json:"gender" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Captcha  string `form:"captcha" json:"captcha"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password" validate:"required"`
	NewPassword     string `form:"new_password" json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `form:"password" json:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required"`
}

// EditAccountRequest deliberately carries no role or status.
type EditAccountRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=3,max=100"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Country  string `form:"country" json:"country"`
	State    string `form:"state" json:"state"`
	City     string `form:"city" json:"city"`
	Gender   string `form:"gender" json:"gender" validate:"omitempty,max=20"`
}
