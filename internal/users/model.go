package users

import (
	"strings"
	"time"
)

// User is the public identity mirrored to clients. The password hash never
// leaves this package.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SignupRequest is the request body for POST /user/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Validate checks required signup fields.
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// LoginRequest is the request body for POST /user/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required login fields.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return ErrMissingFields
	}
	return nil
}

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
