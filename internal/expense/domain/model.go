package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Expense is a standalone cost not attached to any product. Amount is a
// positive magnitude; the profit impact lives in the history ledger.
type Expense struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Category    string       `json:"category" gorm:"type:text;not null"`
	Description string       `json:"description,omitempty" gorm:"type:text"`
	Amount      float64      `json:"amount" gorm:"not null"`
	ExpenseDate time.Time    `json:"expense_date" gorm:"not null;index"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Expense) TableName() string { return "expenses" }

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidAmount = errors.New("invalid_amount")
)

type CreateRequest struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	ExpenseDate time.Time `json:"expense_date"`
}

type Response struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	ExpenseDate time.Time `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, expense *Expense) error
	FindAll(ctx context.Context, db *gorm.DB) ([]Expense, error)
}
