package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
	RoleViewer  = "viewer"
)

// User represents an operator of the bid-tracking console
type User struct {
	Base
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	Role         string     `json:"role"` // admin, manager, user, viewer
	Organization string     `json:"organization"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// CreateUserRequest is the payload of POST /admin/users.
type CreateUserRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=64"`
	Email        string `json:"email" binding:"required,email"`
	FullName     string `json:"fullName" binding:"max=100"`
	Role         string `json:"role" binding:"omitempty,oneof=admin manager user viewer"`
	Organization string `json:"organization" binding:"max=200"`
	IsActive     *bool  `json:"isActive"`
}

// UserPatch lists the user fields an admin may change.
type UserPatch struct {
	Email        *string `json:"email" binding:"omitempty,email"`
	FullName     *string `json:"fullName" binding:"omitempty,max=100"`
	Role         *string `json:"role" binding:"omitempty,oneof=admin manager user viewer"`
	Organization *string `json:"organization" binding:"omitempty,max=200"`
	IsActive     *bool   `json:"isActive"`
}

// Apply merges the set fields of p into u.
func (p *UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Organization != nil {
		u.Organization = *p.Organization
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p *UserPatch) IsEmpty() bool {
	return p.Email == nil && p.FullName == nil && p.Role == nil && p.Organization == nil && p.IsActive == nil
}
