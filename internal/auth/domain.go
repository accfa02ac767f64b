package auth

import "time"

// User represents an account as seen by the login flow.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
}

// LoginRequest is the payload of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// IssuedToken is a freshly signed bearer token.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenView is returned by a successful login.
type TokenView struct {
	Type      string `json:"type"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}
