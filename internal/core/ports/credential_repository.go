package ports

import (
	"context"

	"github.com/cointrail/tracker-api/internal/core/domain"
)

// CredentialRepository defines persistence for user credentials.
type CredentialRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username is already registered (storage uniqueness backstop).
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// DeleteAll wipes every user. Used by the seed/wipe utility only.
	DeleteAll(ctx context.Context) error
}
