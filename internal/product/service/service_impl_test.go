package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	historyrepo "github.com/smallbiznis/opsboard/internal/history/repository"
	"github.com/smallbiznis/opsboard/internal/product/domain"
	"github.com/smallbiznis/opsboard/internal/product/repository"
	"github.com/smallbiznis/opsboard/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Product{}, &historydomain.Entry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC))

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		Repo:        repository.Provide(),
		HistoryRepo: historyrepo.Provide(),
	})
	return &fixture{svc: svc, db: conn, clock: fake}
}

func (f *fixture) entries(t *testing.T) []historydomain.Entry {
	t.Helper()
	var items []historydomain.Entry
	require.NoError(t, f.db.Order("created_at ASC, id ASC").Find(&items).Error)
	return items
}

func TestLaunchSeedsStockCost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name:              "Posture Corrector",
		Market:            "KSA",
		Stock:             50,
		UnitCost:          4,
		SellingPrice:      25,
		ServiceFeePerUnit: 2,
	})
	require.NoError(t, err)

	require.Equal(t, domain.StatusActive, resp.Status)
	require.Equal(t, int64(50), resp.StockAvailable)
	require.Equal(t, int64(50), resp.StockTotal)
	require.Equal(t, -200.0, resp.COGS)
	require.Equal(t, -200.0, resp.NetProfit)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, historydomain.KindMetricUpdate, entries[0].Kind)
	require.Equal(t, 200.0, entries[0].COGS)
	require.Equal(t, -200.0, entries[0].NetProfit)
	require.False(t, entries[0].IsCorrection)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), entries[0].EntryDate.UTC())
}

func TestLaunchTestItemSeedsAdSpend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name:        "Mini Blender",
		Market:      "UAE",
		IsTest:      true,
		TestAdSpend: 120,
		TestCPL:     3.5,
	})
	require.NoError(t, err)

	require.True(t, resp.IsTest)
	require.Equal(t, domain.TestResultPending, resp.TestResult)
	require.Equal(t, domain.StatusOutOfStock, resp.Status)
	require.Equal(t, 120.0, resp.TotalAdSpend)
	require.Equal(t, -120.0, resp.NetProfit)
	require.Equal(t, 3.5, resp.CPL)
	require.Zero(t, resp.COGS)

	entries := f.entries(t)
	require.Len(t, entries, 1)
	require.Equal(t, 120.0, entries[0].AdSpend)
	require.Equal(t, -120.0, entries[0].NetProfit)
}

func TestLaunchWithoutUpfrontCost(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Launch(context.Background(), domain.LaunchRequest{
		Name:         "Preorder Gadget",
		Market:       "UAE",
		SellingPrice: 30,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOutOfStock, resp.Status)
	require.Zero(t, resp.NetProfit)

	// Nothing was spent, so nothing lands in the ledger.
	require.Empty(t, f.entries(t))
}

func TestLaunchRejectsBlankName(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Launch(context.Background(), domain.LaunchRequest{Name: "  ", Market: "KSA"})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Launch(context.Background(), domain.LaunchRequest{Name: "Lamp", Market: ""})
	require.ErrorIs(t, err, domain.ErrInvalidMarket)
}

func TestApplyMetricsAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name:              "Neck Massager",
		Market:            "KSA",
		Stock:             30,
		UnitCost:          5,
		SellingPrice:      40,
		ServiceFeePerUnit: 2,
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{
		NewLeads:        5,
		ConfirmedOrders: 3,
		DeliveredUnits:  2,
		Revenue:         80,
		FBAds:           30,
	})
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	resp, err := f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{
		NewLeads:        3,
		ConfirmedOrders: 2,
		DeliveredUnits:  1,
		Revenue:         80,
		TikTokAds:       20,
		ShippingFees:    10,
	})
	require.NoError(t, err)

	require.Equal(t, int64(8), resp.TotalLeads)
	require.Equal(t, int64(5), resp.TotalOrders)
	require.Equal(t, int64(3), resp.TotalDelivered)
	require.Equal(t, int64(27), resp.StockAvailable)
	require.Equal(t, 160.0, resp.TotalRevenue)
	require.Equal(t, -30.0, resp.AdsFacebook)
	require.Equal(t, -20.0, resp.AdsTikTok)
	require.Equal(t, -10.0, resp.ShippingFees)
	require.Equal(t, -10.0, resp.ServiceFeesTotal)
	require.Equal(t, 50.0, resp.TotalAdSpend)
	// 160 - (50 ads + 10 fees + 150 cogs + 10 shipping)
	require.Equal(t, -60.0, resp.NetProfit)
	require.Equal(t, domain.StatusActive, resp.Status)

	entries := f.entries(t)
	require.Len(t, entries, 3)

	// Summing batch profits reproduces the snapshot's net profit.
	var total float64
	for _, e := range entries {
		total += e.NetProfit
	}
	require.InDelta(t, resp.NetProfit, total, 1e-9)

	second := entries[2]
	require.Equal(t, 80.0, second.Revenue)
	require.Equal(t, 20.0, second.AdSpend)
	require.Equal(t, 10.0, second.ShippingFees)
	require.Equal(t, 4.0, second.ServiceFees)
	require.Equal(t, 80.0-20.0-10.0-4.0, second.NetProfit)
	require.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), second.EntryDate.UTC())
}

func TestApplyMetricsNegativeDeltaIsRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Foot Massager", Market: "KSA", Stock: 30,
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{FBAds: 50, ShippingFees: 20})
	require.NoError(t, err)

	resp, err := f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{FBAds: -10, ShippingFees: -5})
	require.NoError(t, err)

	// The refund shrinks the running totals instead of growing them.
	require.Equal(t, -40.0, resp.AdsFacebook)
	require.Equal(t, -15.0, resp.ShippingFees)
	require.Equal(t, 40.0, resp.TotalAdSpend)
	require.Equal(t, -55.0, resp.NetProfit)

	entries := f.entries(t)
	require.Len(t, entries, 2)
	refund := entries[1]
	require.Equal(t, -10.0, refund.AdSpend)
	require.Equal(t, -5.0, refund.ShippingFees)
	require.Equal(t, 15.0, refund.NetProfit)

	var total float64
	for _, e := range entries {
		total += e.NetProfit
	}
	require.InDelta(t, resp.NetProfit, total, 1e-9)
}

func TestApplyMetricsZeroDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Candle Set", Market: "UAE", Stock: 25, UnitCost: 2,
	})
	require.NoError(t, err)

	before, err := f.svc.Get(ctx, launched.ID)
	require.NoError(t, err)

	after, err := f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{})
	require.NoError(t, err)

	require.Equal(t, before.NetProfit, after.NetProfit)
	require.Equal(t, before.TotalRevenue, after.TotalRevenue)
	require.Equal(t, before.Status, after.Status)

	entries := f.entries(t)
	require.Len(t, entries, 2)
	require.Zero(t, entries[1].Revenue)
	require.Zero(t, entries[1].NetProfit)
}

func TestApplyMetricsStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Hair Straightener", Market: "KSA", Stock: 21, UnitCost: 3,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, launched.Status)

	resp, err := f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{DeliveredUnits: 2})
	require.NoError(t, err)
	require.Equal(t, domain.StatusLowStock, resp.Status)

	resp, err = f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{DeliveredUnits: 19})
	require.NoError(t, err)
	require.Equal(t, domain.StatusOutOfStock, resp.Status)

	resp, err = f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{StockAdded: 40, StockCost: 120})
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, resp.Status)
	require.Equal(t, int64(61), resp.StockTotal)
}

func TestApplyMetricsUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ApplyMetrics(context.Background(), "123456789", domain.MetricsDelta{})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.ApplyMetrics(context.Background(), "not-a-number", domain.MetricsDelta{})
	require.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestApplyCorrectionRecordsDifference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Yoga Mat", Market: "UAE", Stock: 30, UnitCost: 2,
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{
		NewLeads: 10, ConfirmedOrders: 4, Revenue: 200, FBAds: 40,
	})
	require.NoError(t, err)

	revenue := 250.0
	resp, err := f.svc.ApplyCorrection(ctx, launched.ID, domain.CorrectionRequest{
		TotalRevenue: &revenue,
	})
	require.NoError(t, err)
	require.Equal(t, 250.0, resp.TotalRevenue)

	entries := f.entries(t)
	require.Len(t, entries, 3)

	correction := entries[2]
	require.True(t, correction.IsCorrection)
	require.Equal(t, 50.0, correction.Revenue)
	require.Equal(t, 50.0, correction.NetProfit)
	require.Zero(t, correction.Leads)
}

func TestApplyCorrectionNoFinancialChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Desk Lamp", Market: "KSA", Stock: 30, UnitCost: 2,
	})
	require.NoError(t, err)

	name := "Desk Lamp Pro"
	sourced := true
	resp, err := f.svc.ApplyCorrection(ctx, launched.ID, domain.CorrectionRequest{
		Name:      &name,
		IsSourced: &sourced,
	})
	require.NoError(t, err)
	require.Equal(t, "Desk Lamp Pro", resp.Name)
	require.True(t, resp.IsSourced)

	// Only the launch entry exists; a rename is not a financial event.
	require.Len(t, f.entries(t), 1)
}

func TestApplyCorrectionNormalizesCostSigns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Car Vacuum", Market: "UAE", Stock: 30, UnitCost: 2,
	})
	require.NoError(t, err)

	fbAds := 90.0
	resp, err := f.svc.ApplyCorrection(ctx, launched.ID, domain.CorrectionRequest{
		AdsFacebook: &fbAds,
	})
	require.NoError(t, err)

	require.Equal(t, -90.0, resp.AdsFacebook)
	require.Equal(t, 90.0, resp.TotalAdSpend)
}

func TestDeleteKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	launched, err := f.svc.Launch(ctx, domain.LaunchRequest{
		Name: "Phone Stand", Market: "KSA", Stock: 10, UnitCost: 1,
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyMetrics(ctx, launched.ID, domain.MetricsDelta{Revenue: 55})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, launched.ID))

	_, err = f.svc.Get(ctx, launched.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.Len(t, f.entries(t), 2)

	items, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}
