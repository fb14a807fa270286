package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}

// CreditLedger guards the per-user credit balance
type CreditLedger interface {
	// CheckAndDeductCredit subtracts amount in a single conditional update.
	// Returns entities.ErrInsufficientCredit when the balance is lower than
	// amount and entities.ErrUserNotFound for unknown users.
	CheckAndDeductCredit(ctx context.Context, userID uuid.UUID, amount int) error

	// GetBalance returns the current balance
	GetBalance(ctx context.Context, userID uuid.UUID) (entities.CreditBalance, error)

	// AddCredits grants credits to a user
	AddCredits(ctx context.Context, userID uuid.UUID, amount int) error
}
