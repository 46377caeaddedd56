package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available roles for route guards.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleStartup UserRole = "STARTUP"
	RoleAdmin   UserRole = "ADMIN"
)

// User is the shared account record. Credentials and profile editing are
// owned by the external auth service; this API only reads display fields.
type User struct {
	ID          string    `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	Username    *string   `db:"username" json:"username,omitempty"`
	FirstName   *string   `db:"first_name" json:"first_name,omitempty"`
	LastName    *string   `db:"last_name" json:"last_name,omitempty"`
	CompanyName *string   `db:"company_name" json:"company_name,omitempty"`
	Role        UserRole  `db:"role" json:"role"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DisplayName resolves a human-readable name the way the UI labels users:
// company name for startups, then full name, then username, then the email
// local part.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	first := ""
	if u.FirstName != nil {
		first = *u.FirstName
	}
	last := ""
	if u.LastName != nil {
		last = *u.LastName
	}
	if full := strings.TrimSpace(first + " " + last); full != "" {
		return full
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// JWTClaims represents the access token payload issued by the auth service.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}
