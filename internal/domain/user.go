package domain

import (
	"slices"
	"time"
)

// Roles carried by users. They form a flat set: holding one never implies another.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ReservedUserName cannot be used as a user name because it aliases the caller in routes.
const ReservedUserName = "me"

// User is the domain model for accounts that can sign in.
type User struct {
	ID           string
	Name         string
	Roles        []string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// HasRole reports whether the user carries role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// UserPatch holds the optional fields of a partial user update.
type UserPatch struct {
	Name  *string
	Roles []string
}

// Apply returns a copy of u with the set fields of p applied.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Roles != nil {
		u.Roles = slices.Clone(p.Roles)
	}
	return u
}
