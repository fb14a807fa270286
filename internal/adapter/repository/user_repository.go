package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// UserRepository implements user storage and the credit ledger
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CheckAndDeductCredit decrements the balance only if it covers amount. The
// guard and the write are one UPDATE, so concurrent submissions for the same
// user cannot overdraw.
func (r *UserRepository) CheckAndDeductCredit(ctx context.Context, userID uuid.UUID, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Updates(map[string]interface{}{
			"credits":    gorm.Expr("credits - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deduct credit: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if count == 0 {
		return entities.ErrUserNotFound
	}
	return entities.ErrInsufficientCredit
}

// GetBalance returns the credit balance of a user
func (r *UserRepository) GetBalance(ctx context.Context, userID uuid.UUID) (entities.CreditBalance, error) {
	user, err := r.FindByID(ctx, userID)
	if err != nil {
		return entities.CreditBalance{}, err
	}
	return user.Balance(), nil
}

// AddCredits grants credits to a user
func (r *UserRepository) AddCredits(ctx context.Context, userID uuid.UUID, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	result := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"credits":    gorm.Expr("credits + ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to add credits: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrUserNotFound
	}
	return nil
}
