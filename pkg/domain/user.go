package domain

import "time"

// User roles as stored by the backend in the peran field.
const (
	RoleAdmin = "admin"
	RoleUser  = "pengguna"
)

// User represents a registered account.
type User struct {
	ID        int        `json:"id_pengguna"`
	Name      string     `json:"nama"`
	Email     string     `json:"email"`
	Password  string     `json:"kata_sandi,omitempty"` // write-only
	Role      string     `json:"peran"`
	CreatedAt *time.Time `json:"dibuat_pada,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one the backend accepts.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
