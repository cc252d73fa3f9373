package domain

import (
	"context"
	"time"
)

type Service interface {
	Launch(ctx context.Context, req LaunchRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error
	ApplyMetrics(ctx context.Context, id string, delta MetricsDelta) (*Response, error)
	ApplyCorrection(ctx context.Context, id string, req CorrectionRequest) (*Response, error)
}

// LaunchRequest creates a product with all counters at zero. Non-test
// products seed cogs from the upfront stock purchase (UnitCost * Stock);
// test-lab items seed ad spend and CPL from the test run instead and skip
// stock accounting.
type LaunchRequest struct {
	Name              string     `json:"name"`
	Market            string     `json:"market"`
	Stock             int64      `json:"stock"`
	UnitCost          float64    `json:"unit_cost"`
	SellingPrice      float64    `json:"selling_price"`
	ServiceFeePerUnit float64    `json:"service_fee_per_unit"`
	ImageURL          string     `json:"image_url"`
	IsTest            bool       `json:"is_test"`
	TestAdSpend       float64    `json:"test_ad_spend"`
	TestCPL           float64    `json:"test_cpl"`
	TestResult        TestResult `json:"test_result"`
}

// MetricsDelta carries one reporting batch of same-period additive
// quantities. Cost figures are signed spend amounts: positive adds cost,
// negative records a refund. Fields default to zero and every value is
// applied arithmetically (input sanity is a UI concern).
type MetricsDelta struct {
	NewLeads        int64   `json:"new_leads"`
	ConfirmedOrders int64   `json:"confirmed_orders"`
	DeliveredUnits  int64   `json:"delivered_units"`
	StockAdded      int64   `json:"stock_added"`
	StockCost       float64 `json:"stock_cost"`
	ExtraFees       float64 `json:"extra_fees"`
	ShippingFees    float64 `json:"shipping_fees"`
	Revenue         float64 `json:"revenue"`
	FBAds           float64 `json:"fb_ads"`
	TikTokAds       float64 `json:"tiktok_ads"`
}

// CorrectionRequest overwrites absolute totals for any subset of fields;
// nil fields keep their prior value. Cost fields are normalized to the
// non-positive convention on merge.
type CorrectionRequest struct {
	Name              *string     `json:"name"`
	Market            *string     `json:"market"`
	SellingPrice      *float64    `json:"selling_price"`
	ServiceFeePerUnit *float64    `json:"service_fee_per_unit"`
	ImageURL          *string     `json:"image_url"`
	TotalLeads        *int64      `json:"total_leads"`
	TotalOrders       *int64      `json:"total_orders"`
	TotalDelivered    *int64      `json:"total_delivered"`
	StockAvailable    *int64      `json:"stock_available"`
	StockTotal        *int64      `json:"stock_total"`
	TotalRevenue      *float64    `json:"total_revenue"`
	AdsFacebook       *float64    `json:"ads_facebook"`
	AdsTikTok         *float64    `json:"ads_tiktok"`
	COGS              *float64    `json:"cogs"`
	ExtraFees         *float64    `json:"extra_fees"`
	ShippingFees      *float64    `json:"shipping_fees"`
	IsSourced         *bool       `json:"is_sourced"`
	TestResult        *TestResult `json:"test_result"`
}

type Response struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Market string `json:"market"`
	Status Status `json:"status"`

	SellingPrice      float64 `json:"selling_price"`
	ServiceFeePerUnit float64 `json:"service_fee_per_unit"`
	ImageURL          string  `json:"image_url,omitempty"`

	TotalLeads     int64 `json:"total_leads"`
	TotalOrders    int64 `json:"total_orders"`
	TotalDelivered int64 `json:"total_delivered"`
	StockAvailable int64 `json:"stock_available"`
	StockTotal     int64 `json:"stock_total"`

	TotalRevenue float64 `json:"total_revenue"`
	AdsFacebook  float64 `json:"ads_facebook"`
	AdsTikTok    float64 `json:"ads_tiktok"`
	COGS         float64 `json:"cogs"`
	ExtraFees    float64 `json:"extra_fees"`
	ShippingFees float64 `json:"shipping_fees"`

	ServiceFeesTotal float64 `json:"service_fees_total"`
	TotalAdSpend     float64 `json:"total_ad_spend"`
	NetProfit        float64 `json:"net_profit"`
	CPD              float64 `json:"cpd"`
	CPL              float64 `json:"cpl"`
	ProfitPerOrder   float64 `json:"profit_per_order"`
	CPDBreakeven     float64 `json:"cpd_breakeven"`
	CPLBreakeven     float64 `json:"cpl_breakeven"`
	DeliveryRate     float64 `json:"delivery_rate"`
	ConfirmationRate float64 `json:"confirmation_rate"`
	ProfitMargin     float64 `json:"profit_margin"`

	IsTest     bool       `json:"is_test"`
	TestResult TestResult `json:"test_result"`
	IsSourced  bool       `json:"is_sourced"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
