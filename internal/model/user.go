package model

import (
	"fmt"
	"time"
)

// User represents a registered account (commuter, driver or admin).
type User struct {
	ID           int64      `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	PhotoMime    string     `json:"photo_mime,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleAdmin    = "admin"
	RoleDriver   = "driver"
	RoleCommuter = "commuter"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDriver, RoleCommuter:
		return true
	}
	return false
}

// SignupRole reports whether role may be chosen at self-signup.
// Admin accounts are only created by another admin or at database init.
func SignupRole(role string) bool {
	return role == RoleDriver || role == RoleCommuter
}

// ValidatePassword checks minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
