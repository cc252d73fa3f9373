package domain

import (
	"errors"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status reflects stock availability and is recomputed after every
// stock-affecting mutation.
type Status string

const (
	StatusActive     Status = "Active"
	StatusLowStock   Status = "Low Stock"
	StatusOutOfStock Status = "Out of Stock"
)

const lowStockThreshold = 20

// StatusForStock maps available stock to a product status.
func StatusForStock(stockAvailable int64) Status {
	switch {
	case stockAvailable <= 0:
		return StatusOutOfStock
	case stockAvailable < lowStockThreshold:
		return StatusLowStock
	default:
		return StatusActive
	}
}

type TestResult string

const (
	TestResultWinner  TestResult = "Winner"
	TestResultLoser   TestResult = "Loser"
	TestResultPending TestResult = "Pending"
)

// Product is the current snapshot of a tracked item. Cost accumulators
// (ads_facebook, ads_tiktok, cogs, extra_fees, shipping_fees,
// service_fees_total) are running totals stored as non-positive values;
// use CostTotal when writing them. Derived fields are recomputed from the
// raw accumulators on every mutation and must never feed back into
// derivation.
type Product struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	Name   string       `json:"name" gorm:"type:text;not null"`
	Market string       `json:"market" gorm:"type:text;not null"`
	Status Status       `json:"status" gorm:"type:text;not null"`

	SellingPrice      float64 `json:"selling_price" gorm:"not null;default:0"`
	ServiceFeePerUnit float64 `json:"service_fee_per_unit" gorm:"not null;default:0"`
	ImageURL          string  `json:"image_url,omitempty" gorm:"type:text"`

	TotalLeads     int64 `json:"total_leads" gorm:"not null;default:0"`
	TotalOrders    int64 `json:"total_orders" gorm:"not null;default:0"`
	TotalDelivered int64 `json:"total_delivered" gorm:"not null;default:0"`
	StockAvailable int64 `json:"stock_available" gorm:"not null;default:0"`
	StockTotal     int64 `json:"stock_total" gorm:"not null;default:0"`

	TotalRevenue float64 `json:"total_revenue" gorm:"not null;default:0"`
	AdsFacebook  float64 `json:"ads_facebook" gorm:"not null;default:0"`
	AdsTikTok    float64 `json:"ads_tiktok" gorm:"not null;default:0"`
	COGS         float64 `json:"cogs" gorm:"column:cogs;not null;default:0"`
	ExtraFees    float64 `json:"extra_fees" gorm:"not null;default:0"`
	ShippingFees float64 `json:"shipping_fees" gorm:"not null;default:0"`

	ServiceFeesTotal float64 `json:"service_fees_total" gorm:"not null;default:0"`
	TotalAdSpend     float64 `json:"total_ad_spend" gorm:"not null;default:0"`
	NetProfit        float64 `json:"net_profit" gorm:"not null;default:0"`
	CPD              float64 `json:"cpd" gorm:"column:cpd;not null;default:0"`
	CPL              float64 `json:"cpl" gorm:"column:cpl;not null;default:0"`
	ProfitPerOrder   float64 `json:"profit_per_order" gorm:"not null;default:0"`
	CPDBreakeven     float64 `json:"cpd_breakeven" gorm:"column:cpd_breakeven;not null;default:0"`
	CPLBreakeven     float64 `json:"cpl_breakeven" gorm:"column:cpl_breakeven;not null;default:0"`
	DeliveryRate     float64 `json:"delivery_rate" gorm:"not null;default:0"`
	ConfirmationRate float64 `json:"confirmation_rate" gorm:"not null;default:0"`
	ProfitMargin     float64 `json:"profit_margin" gorm:"not null;default:0"`

	IsTest     bool       `json:"is_test" gorm:"not null;default:false"`
	TestResult TestResult `json:"test_result" gorm:"type:text;not null;default:'Pending'"`
	IsSourced  bool       `json:"is_sourced" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// CostTotal normalizes a cost accumulator value to the non-positive sign
// convention regardless of how the caller signed it.
func CostTotal(v float64) float64 {
	return -math.Abs(v)
}

var (
	ErrNotFound      = errors.New("not_found")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidMarket = errors.New("invalid_market")
	ErrInvalidID     = errors.New("invalid_id")
)
