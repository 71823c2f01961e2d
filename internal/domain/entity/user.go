// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity. The national ID is the login
// identifier; email is kept for contact and must also be unique.
type User struct {
	ID           uuid.UUID // The unique identifier for the user account.
	NationalID   string    // The 10-digit national ID used as the login identifier.
	FirstName    string    // The user's given name.
	LastName     string    // The user's family name.
	Email        string    // The user's contact email, unique across accounts.
	Phone        string    // Optional mobile phone number, up to 11 digits.
	PasswordHash string    // The bcrypt hash of the login password.
	IsActive     bool      // Whether the account may log in.
	IsStaff      bool      // Whether the account has staff privileges.
	IsAdmin      bool      // Whether the account has full administrative privileges.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Roles returns the roles carried by this account, for token claims.
func (u *User) Roles() Roles {
	roles := Roles{RoleUser}
	if u.IsStaff {
		roles = append(roles, RoleStaff)
	}
	if u.IsAdmin {
		roles = append(roles, RoleAdmin)
	}

	return roles
}
