package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/opsboard/internal/clock"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	"github.com/smallbiznis/opsboard/internal/liveevents"
	obsmetrics "github.com/smallbiznis/opsboard/internal/observability/metrics"
	"github.com/smallbiznis/opsboard/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	collectionProducts = "products"
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
		log:         p.Log.Named("product.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		historyRepo: p.HistoryRepo,
		hub:         p.Hub,
		metrics:     p.Metrics,
	}
}

func (s *service) Launch(ctx context.Context, req domain.LaunchRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	market := strings.TrimSpace(req.Market)
	if market == "" {
		return nil, domain.ErrInvalidMarket
	}

	now := s.clock.Now().UTC()
	product := &domain.Product{
		ID:                s.genID.Generate(),
		Name:              name,
		Market:            market,
		SellingPrice:      req.SellingPrice,
		ServiceFeePerUnit: req.ServiceFeePerUnit,
		ImageURL:          strings.TrimSpace(req.ImageURL),
		IsTest:            req.IsTest,
		TestResult:        domain.TestResultPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// The upfront purchase (stock or test ad spend) is a sunk cost before
	// any sales, so it gets its own ledger entry. A free launch does not.
	var entry *historydomain.Entry
	if req.IsTest {
		if req.TestResult != "" {
			product.TestResult = req.TestResult
		}
		testSpend := math.Abs(req.TestAdSpend)
		product.AdsFacebook = domain.CostTotal(testSpend)
		if testSpend != 0 {
			entry = &historydomain.Entry{
				ID:        s.genID.Generate(),
				Kind:      historydomain.KindMetricUpdate,
				EntryDate: dateOnly(now),
				ProductID: &product.ID,
				AdSpend:   testSpend,
				NetProfit: -testSpend,
				CreatedAt: now,
			}
		}
	} else {
		stockCost := math.Abs(req.UnitCost * float64(req.Stock))
		product.StockAvailable = req.Stock
		product.StockTotal = req.Stock
		product.COGS = domain.CostTotal(stockCost)
		if stockCost != 0 {
			entry = &historydomain.Entry{
				ID:        s.genID.Generate(),
				Kind:      historydomain.KindMetricUpdate,
				EntryDate: dateOnly(now),
				ProductID: &product.ID,
				COGS:      stockCost,
				NetProfit: -stockCost,
				CreatedAt: now,
			}
		}
	}

	product.Status = domain.StatusForStock(product.StockAvailable)
	product.ApplyDerived(domain.Derive(*product))
	if req.IsTest && req.TestCPL != 0 {
		product.CPL = math.Abs(req.TestCPL)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, product); err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return s.historyRepo.Insert(ctx, tx, entry)
	})
	s.metrics.RecordMutation(collectionProducts, liveevents.ActionInsert, err)
	if err != nil {
		s.log.Error("launch product", zap.Error(err))
		return nil, err
	}
	s.publish(collectionProducts, liveevents.ActionInsert, product.ID.String(), product)
	if entry != nil {
		s.metrics.RecordHistoryEntry(string(entry.Kind))
		s.publish(collectionHistory, liveevents.ActionInsert, entry.ID.String(), entry)
	}

	s.log.Info("product launched",
		zap.String("product_id", product.ID.String()),
		zap.Bool("is_test", product.IsTest),
	)
	resp := toResponse(*product)
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

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	product, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*product)
	return &resp, nil
}

// Delete removes the snapshot only. History entries that reference the
// product stay in the ledger so past periods keep their totals.
func (s *service) Delete(ctx context.Context, id string) error {
	product, err := s.load(ctx, s.db, id)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, s.db, int64(product.ID))
	s.metrics.RecordMutation(collectionProducts, liveevents.ActionDelete, err)
	if err != nil {
		s.log.Error("delete product", zap.Error(err), zap.String("product_id", id))
		return err
	}
	s.publish(collectionProducts, liveevents.ActionDelete, product.ID.String(), nil)
	return nil
}

// ApplyMetrics folds one reporting batch into the running totals,
// rederives, and appends the batch to the ledger in the same transaction.
func (s *service) ApplyMetrics(ctx context.Context, id string, delta domain.MetricsDelta) (*domain.Response, error) {
	product, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()

	product.TotalLeads += delta.NewLeads
	product.TotalOrders += delta.ConfirmedOrders
	product.TotalDelivered += delta.DeliveredUnits
	product.StockAvailable += delta.StockAdded - delta.DeliveredUnits
	product.StockTotal += delta.StockAdded
	product.TotalRevenue += delta.Revenue
	// Deltas are signed: a negative spend is a refund and shrinks the
	// running total. Only the stored total's sign is clamped.
	product.AdsFacebook = domain.CostTotal(math.Abs(product.AdsFacebook) + delta.FBAds)
	product.AdsTikTok = domain.CostTotal(math.Abs(product.AdsTikTok) + delta.TikTokAds)
	product.COGS = domain.CostTotal(math.Abs(product.COGS) + delta.StockCost)
	product.ExtraFees = domain.CostTotal(math.Abs(product.ExtraFees) + delta.ExtraFees)
	product.ShippingFees = domain.CostTotal(math.Abs(product.ShippingFees) + delta.ShippingFees)

	product.Status = domain.StatusForStock(product.StockAvailable)
	product.ApplyDerived(domain.Derive(*product))
	product.UpdatedAt = now

	batchServiceFees := float64(delta.ConfirmedOrders) * product.ServiceFeePerUnit
	batchAdSpend := delta.FBAds + delta.TikTokAds
	batchCosts := batchAdSpend +
		batchServiceFees +
		delta.StockCost +
		delta.ExtraFees +
		delta.ShippingFees

	entry := &historydomain.Entry{
		ID:           s.genID.Generate(),
		Kind:         historydomain.KindMetricUpdate,
		EntryDate:    dateOnly(now),
		ProductID:    &product.ID,
		Revenue:      delta.Revenue,
		NetProfit:    delta.Revenue - batchCosts,
		Leads:        delta.NewLeads,
		Orders:       delta.ConfirmedOrders,
		Delivered:    delta.DeliveredUnits,
		AdSpend:      batchAdSpend,
		COGS:         delta.StockCost,
		ServiceFees:  batchServiceFees,
		ExtraFees:    delta.ExtraFees,
		ShippingFees: delta.ShippingFees,
		CreatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, product); err != nil {
			return err
		}
		return s.historyRepo.Insert(ctx, tx, entry)
	})
	s.metrics.RecordMutation(collectionProducts, liveevents.ActionUpdate, err)
	if err != nil {
		s.log.Error("apply metrics", zap.Error(err), zap.String("product_id", id))
		return nil, err
	}
	s.metrics.RecordHistoryEntry(string(entry.Kind))
	s.publish(collectionProducts, liveevents.ActionUpdate, product.ID.String(), product)
	s.publish(collectionHistory, liveevents.ActionInsert, entry.ID.String(), entry)

	resp := toResponse(*product)
	return &resp, nil
}

// ApplyCorrection overwrites absolute totals for the provided fields and
// rederives. If the correction moved revenue or net profit, the difference
// is recorded as a correction entry so period totals follow the fix.
func (s *service) ApplyCorrection(ctx context.Context, id string, req domain.CorrectionRequest) (*domain.Response, error) {
	product, err := s.load(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	prevRevenue := product.TotalRevenue
	prevNetProfit := product.NetProfit

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Market != nil {
		market := strings.TrimSpace(*req.Market)
		if market == "" {
			return nil, domain.ErrInvalidMarket
		}
		product.Market = market
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.ServiceFeePerUnit != nil {
		product.ServiceFeePerUnit = *req.ServiceFeePerUnit
	}
	if req.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.TotalLeads != nil {
		product.TotalLeads = *req.TotalLeads
	}
	if req.TotalOrders != nil {
		product.TotalOrders = *req.TotalOrders
	}
	if req.TotalDelivered != nil {
		product.TotalDelivered = *req.TotalDelivered
	}
	if req.StockAvailable != nil {
		product.StockAvailable = *req.StockAvailable
	}
	if req.StockTotal != nil {
		product.StockTotal = *req.StockTotal
	}
	if req.TotalRevenue != nil {
		product.TotalRevenue = *req.TotalRevenue
	}
	if req.AdsFacebook != nil {
		product.AdsFacebook = domain.CostTotal(*req.AdsFacebook)
	}
	if req.AdsTikTok != nil {
		product.AdsTikTok = domain.CostTotal(*req.AdsTikTok)
	}
	if req.COGS != nil {
		product.COGS = domain.CostTotal(*req.COGS)
	}
	if req.ExtraFees != nil {
		product.ExtraFees = domain.CostTotal(*req.ExtraFees)
	}
	if req.ShippingFees != nil {
		product.ShippingFees = domain.CostTotal(*req.ShippingFees)
	}
	if req.IsSourced != nil {
		product.IsSourced = *req.IsSourced
	}
	if req.TestResult != nil {
		product.TestResult = *req.TestResult
	}

	product.Status = domain.StatusForStock(product.StockAvailable)
	product.ApplyDerived(domain.Derive(*product))
	product.UpdatedAt = now

	deltaRevenue := product.TotalRevenue - prevRevenue
	deltaNetProfit := product.NetProfit - prevNetProfit

	var entry *historydomain.Entry
	if deltaRevenue != 0 || deltaNetProfit != 0 {
		entry = &historydomain.Entry{
			ID:           s.genID.Generate(),
			Kind:         historydomain.KindMetricUpdate,
			EntryDate:    dateOnly(now),
			ProductID:    &product.ID,
			Revenue:      deltaRevenue,
			NetProfit:    deltaNetProfit,
			IsCorrection: true,
			CreatedAt:    now,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, product); err != nil {
			return err
		}
		if entry == nil {
			return nil
		}
		return s.historyRepo.Insert(ctx, tx, entry)
	})
	s.metrics.RecordMutation(collectionProducts, liveevents.ActionUpdate, err)
	if err != nil {
		s.log.Error("apply correction", zap.Error(err), zap.String("product_id", id))
		return nil, err
	}
	s.publish(collectionProducts, liveevents.ActionUpdate, product.ID.String(), product)
	if entry != nil {
		s.metrics.RecordHistoryEntry(string(entry.Kind))
		s.publish(collectionHistory, liveevents.ActionInsert, entry.ID.String(), entry)
	}

	resp := toResponse(*product)
	return &resp, nil
}

func (s *service) load(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	product, err := s.repo.FindByID(ctx, db, parsed)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
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
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponse(p domain.Product) domain.Response {
	return domain.Response{
		ID:                p.ID.String(),
		Name:              p.Name,
		Market:            p.Market,
		Status:            p.Status,
		SellingPrice:      p.SellingPrice,
		ServiceFeePerUnit: p.ServiceFeePerUnit,
		ImageURL:          p.ImageURL,
		TotalLeads:        p.TotalLeads,
		TotalOrders:       p.TotalOrders,
		TotalDelivered:    p.TotalDelivered,
		StockAvailable:    p.StockAvailable,
		StockTotal:        p.StockTotal,
		TotalRevenue:      p.TotalRevenue,
		AdsFacebook:       p.AdsFacebook,
		AdsTikTok:         p.AdsTikTok,
		COGS:              p.COGS,
		ExtraFees:         p.ExtraFees,
		ShippingFees:      p.ShippingFees,
		ServiceFeesTotal:  p.ServiceFeesTotal,
		TotalAdSpend:      p.TotalAdSpend,
		NetProfit:         p.NetProfit,
		CPD:               p.CPD,
		CPL:               p.CPL,
		ProfitPerOrder:    p.ProfitPerOrder,
		CPDBreakeven:      p.CPDBreakeven,
		CPLBreakeven:      p.CPLBreakeven,
		DeliveryRate:      p.DeliveryRate,
		ConfirmationRate:  p.ConfirmationRate,
		ProfitMargin:      p.ProfitMargin,
		IsTest:            p.IsTest,
		TestResult:        p.TestResult,
		IsSourced:         p.IsSourced,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
