package services

import (
	"context"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/tradepay/payment_recon_app/internal/dto"
)

// UserSvcFacade defines user account operations.
type UserSvcFacade interface {
	// Register creates a new user with a bcrypt-hashed password.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves a user by their unique username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindOrCreateOAuthUser resolves an OAuth identity to a local user,
	// creating one on first login.
	FindOrCreateOAuthUser(ctx context.Context, email, name string) (*domain.User, error)
}
