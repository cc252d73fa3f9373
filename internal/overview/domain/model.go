package domain

import (
	"context"
	"errors"
	"strings"
)

// Period selects the reporting window, resolved against the current clock.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodThisWeek  Period = "this_week"
	PeriodThisMonth Period = "this_month"
	PeriodThisYear  Period = "this_year"
	PeriodAllTime   Period = "all_time"
)

var ErrInvalidPeriod = errors.New("invalid_period")

func ParsePeriod(raw string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case PeriodToday:
		return PeriodToday, nil
	case PeriodYesterday:
		return PeriodYesterday, nil
	case PeriodThisWeek:
		return PeriodThisWeek, nil
	case PeriodThisMonth:
		return PeriodThisMonth, nil
	case PeriodThisYear:
		return PeriodThisYear, nil
	case PeriodAllTime, "":
		return PeriodAllTime, nil
	}
	return "", ErrInvalidPeriod
}

// Summary is the reduced view of all ledger entries in a period. Expenses
// holds positive magnitudes keyed by category; TotalExpenses is their sum.
type Summary struct {
	Period Period `json:"period"`

	TotalRevenue   float64 `json:"total_revenue"`
	NetProfit      float64 `json:"net_profit"`
	TotalExpenses  float64 `json:"total_expenses"`
	TotalLeads     int64   `json:"total_leads"`
	TotalOrders    int64   `json:"total_orders"`
	TotalDelivered int64   `json:"total_delivered"`
	TotalAdSpend   float64 `json:"total_ad_spend"`

	DeliveryRate     float64 `json:"delivery_rate"`
	ConfirmationRate float64 `json:"confirmation_rate"`

	Expenses map[string]float64 `json:"expenses"`
}

type Service interface {
	Aggregate(ctx context.Context, period Period) (*Summary, error)
}
