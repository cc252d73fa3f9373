package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	"github.com/smallbiznis/opsboard/internal/expense/domain"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	"github.com/smallbiznis/opsboard/internal/liveevents"
	obsmetrics "github.com/smallbiznis/opsboard/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	collectionExpenses = "expenses"
	collectionHistory  = "history"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	HistoryRepo historydomain.Repository
	Hub         *liveevents.Hub     `optional:"true"`
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	historyRepo historydomain.Repository
	hub         *liveevents.Hub
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		db:          p.DB,
		log:         p.Log.Named("expense.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		historyRepo: p.HistoryRepo,
		hub:         p.Hub,
		metrics:     p.Metrics,
	}
}

// Create records the expense and its profit impact in one transaction. The
// ledger entry keeps the caller-supplied date so backdated expenses land in
// the right reporting period.
func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now().UTC()
	entryDate := req.ExpenseDate
	if entryDate.IsZero() {
		entryDate = now
	}
	entryDate = dateOnly(entryDate)

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = historydomain.CategoryOther
	}

	expense := &domain.Expense{
		ID:          s.genID.Generate(),
		Name:        name,
		Category:    category,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		ExpenseDate: entryDate,
		CreatedAt:   now,
	}
	entry := &historydomain.Entry{
		ID:              s.genID.Generate(),
		Kind:            historydomain.KindExpense,
		EntryDate:       entryDate,
		NetProfit:       -req.Amount,
		ExpenseCategory: category,
		ExpenseAmount:   req.Amount,
		CreatedAt:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, expense); err != nil {
			return err
		}
		return s.historyRepo.Insert(ctx, tx, entry)
	})
	s.metrics.RecordMutation(collectionExpenses, liveevents.ActionInsert, err)
	if err != nil {
		s.log.Error("create expense", zap.Error(err))
		return nil, err
	}
	s.metrics.RecordHistoryEntry(string(entry.Kind))
	s.publish(collectionExpenses, liveevents.ActionInsert, expense.ID.String(), expense)
	s.publish(collectionHistory, liveevents.ActionInsert, entry.ID.String(), entry)

	resp := toResponse(*expense)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return out, nil
}

func (s *service) publish(collection, action, id string, document any) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(liveevents.Change{
		Collection: collection,
		Action:     action,
		ID:         id,
		Document:   document,
		At:         s.clock.Now().UTC(),
	})
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponse(e domain.Expense) domain.Response {
	return domain.Response{
		ID:          e.ID.String(),
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		ExpenseDate: e.ExpenseDate,
		CreatedAt:   e.CreatedAt,
	}
}
