package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SetupRequest stores the shared credential. Allowed exactly once.
type SetupRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest authenticates a submitter against the shared credential. The
// first and last name identify who is submitting; they are not credentials.
type LoginRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued session token and submitter info.
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
	FullName     string    `json:"full_name"`
}

// SessionClaims is the JWT payload marking an authenticated session.
type SessionClaims struct {
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}
