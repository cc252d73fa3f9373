package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	p := Product{
		TotalLeads:        40,
		TotalOrders:       10,
		TotalDelivered:    8,
		TotalRevenue:      300,
		ServiceFeePerUnit: 2,
		AdsFacebook:       -50,
		AdsTikTok:         -30,
		COGS:              -40,
	}

	m := Derive(p)

	require.Equal(t, -20.0, m.ServiceFeesTotal)
	require.Equal(t, 80.0, m.TotalAdSpend)
	require.Equal(t, 160.0, m.NetProfit)
	require.Equal(t, 8.0, m.CPD)
	require.Equal(t, 2.0, m.CPL)
	require.Equal(t, 16.0, m.ProfitPerOrder)
	require.Equal(t, 24.0, m.CPDBreakeven)
	require.Equal(t, 6.0, m.CPLBreakeven)
	require.Equal(t, 20.0, m.DeliveryRate)
	require.Equal(t, 25.0, m.ConfirmationRate)
	require.Equal(t, 53.3, m.ProfitMargin)
}

func TestDeriveSignInsensitive(t *testing.T) {
	negative := Product{
		TotalOrders:       5,
		TotalRevenue:      100,
		ServiceFeePerUnit: 1,
		AdsFacebook:       -10,
		COGS:              -20,
		ShippingFees:      -5,
	}
	positive := negative
	positive.AdsFacebook = 10
	positive.COGS = 20
	positive.ShippingFees = 5

	require.Equal(t, Derive(negative), Derive(positive))
}

func TestDeriveZeroDenominators(t *testing.T) {
	m := Derive(Product{AdsFacebook: -75})

	require.Equal(t, 75.0, m.TotalAdSpend)
	require.Equal(t, -75.0, m.NetProfit)
	require.Zero(t, m.CPD)
	require.Zero(t, m.CPL)
	require.Zero(t, m.ProfitPerOrder)
	require.Zero(t, m.CPDBreakeven)
	require.Zero(t, m.CPLBreakeven)
	require.Zero(t, m.DeliveryRate)
	require.Zero(t, m.ConfirmationRate)
	require.Zero(t, m.ProfitMargin)
}

func TestDeriveIdempotent(t *testing.T) {
	p := Product{
		TotalLeads:        13,
		TotalOrders:       7,
		TotalDelivered:    3,
		TotalRevenue:      412.37,
		ServiceFeePerUnit: 2.5,
		AdsFacebook:       -33.33,
		AdsTikTok:         -12.5,
		COGS:              -98.75,
		ExtraFees:         -4,
		ShippingFees:      -17.2,
	}

	first := Derive(p)
	p.ApplyDerived(first)
	second := Derive(p)

	require.Equal(t, first, second)
}

func TestDeriveRounding(t *testing.T) {
	p := Product{
		TotalLeads:   3,
		TotalOrders:  3,
		TotalRevenue: 100,
		AdsFacebook:  -10,
	}

	m := Derive(p)

	// 10/3 rounds to 3.33, 90/3 ppo stays exact, margin 90% exact.
	require.Equal(t, 3.33, m.CPD)
	require.Equal(t, 3.33, m.CPL)
	require.Equal(t, 30.0, m.ProfitPerOrder)
	require.Equal(t, 100.0, m.ConfirmationRate)
	require.Equal(t, 90.0, m.ProfitMargin)
}

func TestStatusForStock(t *testing.T) {
	require.Equal(t, StatusOutOfStock, StatusForStock(0))
	require.Equal(t, StatusOutOfStock, StatusForStock(-3))
	require.Equal(t, StatusLowStock, StatusForStock(1))
	require.Equal(t, StatusLowStock, StatusForStock(19))
	require.Equal(t, StatusActive, StatusForStock(20))
	require.Equal(t, StatusActive, StatusForStock(500))
}

func TestCostTotal(t *testing.T) {
	require.Equal(t, -12.5, CostTotal(12.5))
	require.Equal(t, -12.5, CostTotal(-12.5))
	require.Zero(t, CostTotal(0))
}
