package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Status string

const (
	StatusUnpaid Status = "Unpaid"
	StatusPaid   Status = "Paid"
)

// Invoice tracks money owed to a partner. Invoices are bookkeeping only
// and never touch the history ledger.
type Invoice struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	PartnerName string       `json:"partner_name" gorm:"type:text;not null"`
	Amount      float64      `json:"amount" gorm:"not null"`
	Link        string       `json:"link,omitempty" gorm:"type:text"`
	InvoiceDate time.Time    `json:"invoice_date" gorm:"not null"`
	Status      Status       `json:"status" gorm:"type:text;not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Invoice) TableName() string { return "invoices" }

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidPartner = errors.New("invalid_partner")
	ErrInvalidAmount  = errors.New("invalid_amount")
	ErrInvalidID      = errors.New("invalid_id")
)

type CreateRequest struct {
	PartnerName string    `json:"partner_name"`
	Amount      float64   `json:"amount"`
	Link        string    `json:"link"`
	InvoiceDate time.Time `json:"invoice_date"`
}

type Response struct {
	ID          string    `json:"id"`
	PartnerName string    `json:"partner_name"`
	Amount      float64   `json:"amount"`
	Link        string    `json:"link,omitempty"`
	InvoiceDate time.Time `json:"invoice_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	TogglePaid(ctx context.Context, id string) (*Response, error)
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Invoice, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Invoice, error)
	Update(ctx context.Context, db *gorm.DB, invoice *Invoice) error
}
