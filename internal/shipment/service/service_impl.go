package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	"github.com/smallbiznis/opsboard/internal/liveevents"
	obsmetrics "github.com/smallbiznis/opsboard/internal/observability/metrics"
	"github.com/smallbiznis/opsboard/internal/shipment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const collectionShipments = "shipments"

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
		log:     p.Log.Named("shipment.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		hub:     p.Hub,
		metrics: p.Metrics,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	supplier := strings.TrimSpace(req.Supplier)
	if supplier == "" {
		return nil, domain.ErrInvalidSupplier
	}
	if req.Method != "" && req.Method != domain.MethodAir && req.Method != domain.MethodSea {
		return nil, domain.ErrInvalidMethod
	}
	status := req.Status
	if status == "" {
		status = domain.StatusSourcing
	}
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	items := req.Items
	if items == nil {
		items = []domain.Item{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	dateSent := req.DateSent
	if dateSent.IsZero() {
		dateSent = now
	}

	shipment := &domain.Shipment{
		ID:             s.genID.Generate(),
		Supplier:       supplier,
		Forwarder:      strings.TrimSpace(req.Forwarder),
		Origin:         strings.TrimSpace(req.Origin),
		Destination:    strings.TrimSpace(req.Destination),
		Method:         req.Method,
		Status:         status,
		Items:          datatypes.JSON(encoded),
		TrackingNumber: strings.TrimSpace(req.TrackingNumber),
		TrackingLink:   strings.TrimSpace(req.TrackingLink),
		InvoiceLink:    strings.TrimSpace(req.InvoiceLink),
		DateSent:       dateSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.repo.Create(ctx, s.db, shipment)
	s.metrics.RecordMutation(collectionShipments, liveevents.ActionInsert, err)
	if err != nil {
		s.log.Error("create shipment", zap.Error(err))
		return nil, err
	}
	s.publish(liveevents.ActionInsert, shipment)

	return toResponse(shipment)
}

func (s *service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Response, 0, len(items))
	for i := range items {
		resp, err := toResponse(&items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return out, nil
}

// UpdateStatus accepts any valid status; there is no transition graph to
// enforce because shipments routinely skip or repeat stages.
func (s *service) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Response, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	shipment, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, domain.ErrNotFound
	}

	shipment.Status = status
	shipment.UpdatedAt = s.clock.Now().UTC()

	err = s.repo.Update(ctx, s.db, shipment)
	s.metrics.RecordMutation(collectionShipments, liveevents.ActionUpdate, err)
	if err != nil {
		s.log.Error("update shipment status", zap.Error(err), zap.String("shipment_id", id))
		return nil, err
	}
	s.publish(liveevents.ActionUpdate, shipment)

	return toResponse(shipment)
}

func (s *service) publish(action string, shipment *domain.Shipment) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(liveevents.Change{
		Collection: collectionShipments,
		Action:     action,
		ID:         shipment.ID.String(),
		Document:   shipment,
		At:         s.clock.Now().UTC(),
	})
}

func toResponse(sh *domain.Shipment) (*domain.Response, error) {
	items := []domain.Item{}
	if len(sh.Items) > 0 {
		if err := json.Unmarshal(sh.Items, &items); err != nil {
			return nil, err
		}
	}
	return &domain.Response{
		ID:             sh.ID.String(),
		Supplier:       sh.Supplier,
		Forwarder:      sh.Forwarder,
		Origin:         sh.Origin,
		Destination:    sh.Destination,
		Method:         sh.Method,
		Status:         sh.Status,
		Items:          items,
		TrackingNumber: sh.TrackingNumber,
		TrackingLink:   sh.TrackingLink,
		InvoiceLink:    sh.InvoiceLink,
		DateSent:       sh.DateSent,
		CreatedAt:      sh.CreatedAt,
		UpdatedAt:      sh.UpdatedAt,
	}, nil
}
