package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holding a credit balance
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Credits   int       `json:"credits" gorm:"not null;default:0"`
	IsPremium bool      `json:"is_premium" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with the given starting credits
func NewUser(email, name string, credits int) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Credits:   credits,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreditBalance is the spendable quota of a user
type CreditBalance struct {
	Credits   int  `json:"credits"`
	IsPremium bool `json:"is_premium"`
}

// Balance returns the user's credit balance
func (u *User) Balance() CreditBalance {
	return CreditBalance{Credits: u.Credits, IsPremium: u.IsPremium}
}
