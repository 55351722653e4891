package models

import (
	"strings"
	"time"
)

// Role is ordered by access level: OWNER > MANAGER > ADMIN.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleOwner   Role = "OWNER"
)

func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleManager:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants at least the access of min.
func (r Role) AtLeast(min Role) bool {
	return r.Level() > 0 && r.Level() >= min.Level()
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Level() > 0
}

type User struct {
	ID               int64      `json:"id"`
	Email            string     `json:"email"`
	Name             *string    `json:"name,omitempty"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Identity is the minimal projection returned by credential checks.
type Identity struct {
	ID    int64   `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	PasswordHash *string `json:"-"`
}

// Session is the request-scoped identity decoded from a session token.
type Session struct {
	UserID    int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
