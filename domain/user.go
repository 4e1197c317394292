package domain

import "time"

// UserRole is the system-wide role, distinct from per-team membership roles.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleMember  UserRole = "member"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleMember:
		return true
	}
	return false
}

// User represents an authenticated identity in the platform. PasswordHash is
// never serialized; API responses carry the remaining fields.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	Avatar       string     `json:"avatar,omitempty"`
	Teams        []string   `json:"teams,omitempty"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) CanLogin() bool {
	return u != nil && u.IsActive
}
