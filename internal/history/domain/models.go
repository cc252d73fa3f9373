package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// EntryKind distinguishes product metric batches from standalone expenses.
type EntryKind string

const (
	KindMetricUpdate EntryKind = "METRIC_UPDATE"
	KindExpense      EntryKind = "EXPENSE"
)

// Cost bucket names used when aggregating METRIC_UPDATE entries.
const (
	CategoryCOGS        = "COGS"
	CategoryShipping    = "Shipping"
	CategoryServiceFees = "Service Fees"
	CategoryExtraFees   = "Extra Fees"
	CategoryAds         = "Ads"
	CategoryOther       = "Other"
)

// Entry is one immutable record of the history ledger. Entries are only
// ever inserted; period reporting is a pure reduction over them, so the
// ledger stays consistent even after the product a METRIC_UPDATE points at
// is deleted. NetProfit is the profit impact of this single transaction,
// frozen at entry time. Cost deltas are stored as spend amounts; a
// negative value records a refund.
type Entry struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Kind      EntryKind    `json:"kind" gorm:"type:text;not null;index"`
	EntryDate time.Time    `json:"entry_date" gorm:"not null;index"`

	ProductID *snowflake.ID `json:"product_id,omitempty" gorm:"index"`

	Revenue   float64 `json:"revenue" gorm:"not null;default:0"`
	NetProfit float64 `json:"net_profit" gorm:"not null;default:0"`
	Leads     int64   `json:"leads" gorm:"not null;default:0"`
	Orders    int64   `json:"orders" gorm:"not null;default:0"`
	Delivered int64   `json:"delivered" gorm:"not null;default:0"`

	AdSpend      float64 `json:"ad_spend" gorm:"not null;default:0"`
	COGS         float64 `json:"cogs" gorm:"column:cogs;not null;default:0"`
	ServiceFees  float64 `json:"service_fees" gorm:"not null;default:0"`
	ExtraFees    float64 `json:"extra_fees" gorm:"not null;default:0"`
	ShippingFees float64 `json:"shipping_fees" gorm:"not null;default:0"`

	ExpenseCategory string  `json:"expense_category,omitempty" gorm:"type:text"`
	ExpenseAmount   float64 `json:"expense_amount" gorm:"not null;default:0"`

	IsCorrection bool `json:"is_correction" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "history_entries" }

// Repository is append-only by construction: there is no update or delete.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	FindAll(ctx context.Context, db *gorm.DB) ([]Entry, error)
	FindInRange(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Entry, error)
}
