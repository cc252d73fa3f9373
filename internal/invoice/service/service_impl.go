package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	"github.com/smallbiznis/opsboard/internal/invoice/domain"
	"github.com/smallbiznis/opsboard/internal/liveevents"
	obsmetrics "github.com/smallbiznis/opsboard/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectionInvoices = "invoices"

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Hub     *liveevents.Hub     `optional:"true"`
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	hub     *liveevents.Hub
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		hub:     p.Hub,
		metrics: p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	partner := strings.TrimSpace(req.PartnerName)
	if partner == "" {
		return nil, domain.ErrInvalidPartner
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := s.clock.Now().UTC()
	invoiceDate := req.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = now
	}

	invoice := &domain.Invoice{
		ID:          s.genID.Generate(),
		PartnerName: partner,
		Amount:      req.Amount,
		Link:        strings.TrimSpace(req.Link),
		InvoiceDate: invoiceDate,
		Status:      domain.StatusUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.repo.Create(ctx, s.db, invoice)
	s.metrics.RecordMutation(collectionInvoices, liveevents.ActionInsert, err)
	if err != nil {
		s.log.Error("create invoice", zap.Error(err))
		return nil, err
	}
	s.publish(liveevents.ActionInsert, invoice)

	resp := toResponse(*invoice)
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

func (s *service) TogglePaid(ctx context.Context, id string) (*domain.Response, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}

	if invoice.Status == domain.StatusPaid {
		invoice.Status = domain.StatusUnpaid
	} else {
		invoice.Status = domain.StatusPaid
	}
	invoice.UpdatedAt = s.clock.Now().UTC()

	err = s.repo.Update(ctx, s.db, invoice)
	s.metrics.RecordMutation(collectionInvoices, liveevents.ActionUpdate, err)
	if err != nil {
		s.log.Error("toggle invoice", zap.Error(err), zap.String("invoice_id", id))
		return nil, err
	}
	s.publish(liveevents.ActionUpdate, invoice)

	resp := toResponse(*invoice)
	return &resp, nil
}

func (s *service) publish(action string, invoice *domain.Invoice) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(liveevents.Change{
		Collection: collectionInvoices,
		Action:     action,
		ID:         invoice.ID.String(),
		Document:   invoice,
		At:         s.clock.Now().UTC(),
	})
}

func toResponse(i domain.Invoice) domain.Response {
	return domain.Response{
		ID:          i.ID.String(),
		PartnerName: i.PartnerName,
		Amount:      i.Amount,
		Link:        i.Link,
		InvoiceDate: i.InvoiceDate,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
