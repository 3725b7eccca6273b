// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avolkhin/noteboard/internal/model"
)

// UserRepository provides access to account records.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists when the
	// email is taken (store-level uniqueness, not an application check).
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by (lower-cased) email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListMembers returns all non-admin users, newest first.
	ListMembers(ctx context.Context) ([]model.User, error)
}
