package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	historyrepo "github.com/smallbiznis/opsboard/internal/history/repository"
	"github.com/smallbiznis/opsboard/internal/overview/domain"
	"github.com/smallbiznis/opsboard/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	clock *clock.FakeClock
	node  *snowflake.Node
}

// Wednesday.
var testNow = time.Date(2025, 3, 12, 16, 20, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&historydomain.Entry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(testNow)
	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Clock:       fake,
		HistoryRepo: historyrepo.Provide(),
	})
	return &fixture{svc: svc, db: conn, clock: fake, node: node}
}

func (f *fixture) insert(t *testing.T, entry historydomain.Entry) {
	t.Helper()
	entry.ID = f.node.Generate()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = entry.EntryDate
	}
	require.NoError(t, historyrepo.Provide().Insert(context.Background(), f.db, &entry))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateEmptyLedger(t *testing.T) {
	f := newFixture(t)

	summary, err := f.svc.Aggregate(context.Background(), domain.PeriodThisMonth)
	require.NoError(t, err)

	require.Zero(t, summary.TotalRevenue)
	require.Zero(t, summary.NetProfit)
	require.Zero(t, summary.TotalExpenses)
	require.Zero(t, summary.DeliveryRate)
	require.Zero(t, summary.ConfirmationRate)
	require.Empty(t, summary.Expenses)
}

func TestAggregateCategoryBuckets(t *testing.T) {
	f := newFixture(t)

	f.insert(t, historydomain.Entry{
		Kind:      historydomain.KindMetricUpdate,
		EntryDate: day(2025, 3, 12),
		Revenue:   500,
		NetProfit: 300,
		Leads:     20,
		Orders:    10,
		Delivered: 6,
		AdSpend:   50,
		COGS:      100,
	})
	f.insert(t, historydomain.Entry{
		Kind:            historydomain.KindExpense,
		EntryDate:       day(2025, 3, 12),
		NetProfit:       -80,
		ExpenseCategory: "Rent",
		ExpenseAmount:   80,
	})
	f.insert(t, historydomain.Entry{
		Kind:          historydomain.KindExpense,
		EntryDate:     day(2025, 3, 12),
		NetProfit:     -20,
		ExpenseAmount: 20,
	})

	summary, err := f.svc.Aggregate(context.Background(), domain.PeriodToday)
	require.NoError(t, err)

	require.Equal(t, 500.0, summary.TotalRevenue)
	require.Equal(t, 200.0, summary.NetProfit)
	require.Equal(t, 50.0, summary.TotalAdSpend)
	require.Equal(t, map[string]float64{
		historydomain.CategoryCOGS:  100,
		historydomain.CategoryAds:   50,
		"Rent":                      80,
		historydomain.CategoryOther: 20,
	}, summary.Expenses)
	require.Equal(t, 250.0, summary.TotalExpenses)
	require.Equal(t, 30.0, summary.DeliveryRate)
	require.Equal(t, 50.0, summary.ConfirmationRate)
}

func TestAggregatePeriodWindows(t *testing.T) {
	f := newFixture(t)

	dates := []time.Time{
		day(2025, 3, 12), // today (Wednesday)
		day(2025, 3, 11), // yesterday
		day(2025, 3, 10), // Monday, start of week
		day(2025, 3, 9),  // Sunday, previous week
		day(2025, 3, 1),  // this month
		day(2025, 1, 5),  // this year
		day(2024, 12, 31), // previous year
	}
	for _, d := range dates {
		f.insert(t, historydomain.Entry{
			Kind:      historydomain.KindMetricUpdate,
			EntryDate: d,
			Revenue:   10,
		})
	}

	cases := []struct {
		period  domain.Period
		revenue float64
	}{
		{domain.PeriodToday, 10},
		{domain.PeriodYesterday, 10},
		{domain.PeriodThisWeek, 30},
		{domain.PeriodThisMonth, 50},
		{domain.PeriodThisYear, 60},
		{domain.PeriodAllTime, 70},
	}
	for _, tc := range cases {
		summary, err := f.svc.Aggregate(context.Background(), tc.period)
		require.NoError(t, err)
		require.Equalf(t, tc.revenue, summary.TotalRevenue, "period %s", tc.period)
	}
}

func TestAggregateWeekStartsMonday(t *testing.T) {
	f := newFixture(t)

	// Monday of the current week counts, the Sunday before does not.
	f.insert(t, historydomain.Entry{
		Kind: historydomain.KindMetricUpdate, EntryDate: day(2025, 3, 10), Revenue: 1,
	})
	f.insert(t, historydomain.Entry{
		Kind: historydomain.KindMetricUpdate, EntryDate: day(2025, 3, 9), Revenue: 100,
	})

	summary, err := f.svc.Aggregate(context.Background(), domain.PeriodThisWeek)
	require.NoError(t, err)
	require.Equal(t, 1.0, summary.TotalRevenue)
}

func TestAggregateToleratesOrphanedProducts(t *testing.T) {
	f := newFixture(t)

	deleted := f.node.Generate()
	f.insert(t, historydomain.Entry{
		Kind:      historydomain.KindMetricUpdate,
		EntryDate: day(2025, 3, 12),
		ProductID: &deleted,
		Revenue:   42,
		NetProfit: 12,
	})

	summary, err := f.svc.Aggregate(context.Background(), domain.PeriodToday)
	require.NoError(t, err)
	require.Equal(t, 42.0, summary.TotalRevenue)
	require.Equal(t, 12.0, summary.NetProfit)
}

func TestParsePeriod(t *testing.T) {
	p, err := domain.ParsePeriod(" This_Month ")
	require.NoError(t, err)
	require.Equal(t, domain.PeriodThisMonth, p)

	p, err = domain.ParsePeriod("")
	require.NoError(t, err)
	require.Equal(t, domain.PeriodAllTime, p)

	_, err = domain.ParsePeriod("fortnight")
	require.ErrorIs(t, err, domain.ErrInvalidPeriod)
}
