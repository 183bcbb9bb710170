package user

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository defines user persistence operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrUserNotFound indicates missing user
type ErrUserNotFound struct {
	UserID int64
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + strconv.FormatInt(e.UserID, 10)
}

// ErrDuplicateUsername indicates username uniqueness violation
type ErrDuplicateUsername struct {
	Username string
}

func (e ErrDuplicateUsername) Error() string {
	return "username already registered: " + e.Username
}

// ErrDuplicateEmail indicates email uniqueness violation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "email already registered: " + e.Email
}
