package domain

import "time"

// Role enumerates access levels. Roles are a closed set; anything outside it
// is rejected at the boundary.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// User is an account in the directory. PasswordHash is nil for accounts that
// only ever signed in through Google; GoogleID is nil for local accounts.
// The same logical account carries both once reconciled by email.
type User struct {
	ID                  int64
	Username            string
	Email               string
	PasswordHash        *string
	Role                Role
	GoogleID            *string
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
}
