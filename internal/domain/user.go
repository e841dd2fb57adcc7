package domain

import (
	"errors"
	"time"
)

// User represents a registered account holder.
type User struct {
	ID             string
	Email          string
	Name           string
	Phone          string
	HashedPassword string
	Role           Role
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin can list all users and promote members to admin
	RoleAdmin Role = "admin"

	// RoleMember can only manage their own entries
	RoleMember Role = "member"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
