package service

import (
	"context"
	"math"
	"time"

	"github.com/smallbiznis/opsboard/internal/clock"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	"github.com/smallbiznis/opsboard/internal/overview/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	HistoryRepo historydomain.Repository
}

type service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	historyRepo historydomain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:          p.DB,
		log:         p.Log.Named("overview.service"),
		clock:       p.Clock,
		historyRepo: p.HistoryRepo,
	}
}

func (s *service) Aggregate(ctx context.Context, period domain.Period) (*domain.Summary, error) {
	now := s.clock.Now().UTC()

	var (
		entries []historydomain.Entry
		err     error
	)
	if period == domain.PeriodAllTime {
		entries, err = s.historyRepo.FindAll(ctx, s.db)
	} else {
		from, to := resolveRange(period, now)
		entries, err = s.historyRepo.FindInRange(ctx, s.db, from, to)
	}
	if err != nil {
		s.log.Error("load history entries", zap.Error(err), zap.String("period", string(period)))
		return nil, err
	}

	summary := Reduce(entries)
	summary.Period = period
	return &summary, nil
}

// resolveRange returns the half-open window [from, to) for a calendar
// period. Weeks start on Monday.
func resolveRange(period domain.Period, now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	switch period {
	case domain.PeriodToday:
		return today, tomorrow
	case domain.PeriodYesterday:
		return today.AddDate(0, 0, -1), today
	case domain.PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		return today.AddDate(0, 0, -offset), tomorrow
	case domain.PeriodThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), tomorrow
	case domain.PeriodThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC), tomorrow
	}
	return time.Time{}, tomorrow
}

// Reduce folds ledger entries into period totals. It is pure so the
// aggregation rules are testable without a database. Entries whose product
// has since been deleted still count; the ledger is the source of truth.
func Reduce(entries []historydomain.Entry) domain.Summary {
	summary := domain.Summary{
		Expenses: make(map[string]float64),
	}

	for _, e := range entries {
		summary.TotalRevenue += e.Revenue
		summary.NetProfit += e.NetProfit
		summary.TotalLeads += e.Leads
		summary.TotalOrders += e.Orders
		summary.TotalDelivered += e.Delivered
		summary.TotalAdSpend += math.Abs(e.AdSpend)

		switch e.Kind {
		case historydomain.KindExpense:
			category := e.ExpenseCategory
			if category == "" {
				category = historydomain.CategoryOther
			}
			summary.Expenses[category] += math.Abs(e.ExpenseAmount)
		case historydomain.KindMetricUpdate:
			addBucket(summary.Expenses, historydomain.CategoryCOGS, e.COGS)
			addBucket(summary.Expenses, historydomain.CategoryShipping, e.ShippingFees)
			addBucket(summary.Expenses, historydomain.CategoryServiceFees, e.ServiceFees)
			addBucket(summary.Expenses, historydomain.CategoryExtraFees, e.ExtraFees)
			addBucket(summary.Expenses, historydomain.CategoryAds, e.AdSpend)
		}
	}

	for _, amount := range summary.Expenses {
		summary.TotalExpenses += amount
	}
	if summary.TotalLeads > 0 {
		leads := float64(summary.TotalLeads)
		summary.DeliveryRate = round1(100 * float64(summary.TotalDelivered) / leads)
		summary.ConfirmationRate = round1(100 * float64(summary.TotalOrders) / leads)
	}
	return summary
}

func addBucket(buckets map[string]float64, category string, amount float64) {
	if amount == 0 {
		return
	}
	buckets[category] += math.Abs(amount)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
