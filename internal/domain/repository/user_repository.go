package repository

import (
	"context"

	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create stages and commits u in one unit of work, filling ID and CreatedAt.
	// A second user with the same email yields ErrDuplicate.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
