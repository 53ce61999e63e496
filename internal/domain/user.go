package domain

import "time"

// Role classifies what a principal is allowed to do.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is the authenticated identity record. ID is the application-level
// identifier the principal authenticates as (the email at registration time),
// distinct from whatever key the backing store uses internally.
type Principal struct {
	ID           string
	Email        string
	Role         Role
	CompanyName  string
	PasswordHash string
	CreatedAt    time.Time
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
