package user

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrEmptyUsername      = errors.New("username cannot be empty")
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrEmptyPasswordHash  = errors.New("password hash cannot be empty")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User represents a registered user who owns accounts and posts transactions
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a new active user with the given credentials.
// The password must already be hashed by the caller.
func NewUser(username, email, passwordHash string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, ErrEmptyUsername
	}
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if passwordHash == "" {
		return nil, ErrEmptyPasswordHash
	}

	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}
