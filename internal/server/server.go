package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/opsboard/internal/config"
	"github.com/smallbiznis/opsboard/internal/expense"
	expensedomain "github.com/smallbiznis/opsboard/internal/expense/domain"
	"github.com/smallbiznis/opsboard/internal/history"
	historydomain "github.com/smallbiznis/opsboard/internal/history/domain"
	"github.com/smallbiznis/opsboard/internal/invoice"
	invoicedomain "github.com/smallbiznis/opsboard/internal/invoice/domain"
	"github.com/smallbiznis/opsboard/internal/liveevents"
	"github.com/smallbiznis/opsboard/internal/migration"
	obsmetrics "github.com/smallbiznis/opsboard/internal/observability/metrics"
	"github.com/smallbiznis/opsboard/internal/overview"
	overviewdomain "github.com/smallbiznis/opsboard/internal/overview/domain"
	"github.com/smallbiznis/opsboard/internal/product"
	productdomain "github.com/smallbiznis/opsboard/internal/product/domain"
	"github.com/smallbiznis/opsboard/internal/shipment"
	shipmentdomain "github.com/smallbiznis/opsboard/internal/shipment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(newSnowflakeNode),
	fx.Provide(registerGin),
	liveevents.Module,
	obsmetrics.Module,
	history.Module,
	product.Module,
	expense.Module,
	shipment.Module,
	invoice.Module,
	overview.Module,
	migration.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	productSvc  productdomain.Service
	expenseSvc  expensedomain.Service
	shipmentSvc shipmentdomain.Service
	invoiceSvc  invoicedomain.Service
	overviewSvc overviewdomain.Service
	historyRepo historydomain.Repository
	changes     *liveevents.Hub
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	ProductSvc  productdomain.Service
	ExpenseSvc  expensedomain.Service
	ShipmentSvc shipmentdomain.Service
	InvoiceSvc  invoicedomain.Service
	OverviewSvc overviewdomain.Service
	HistoryRepo historydomain.Repository
	Changes     *liveevents.Hub `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		productSvc:  p.ProductSvc,
		expenseSvc:  p.ExpenseSvc,
		shipmentSvc: p.ShipmentSvc,
		invoiceSvc:  p.InvoiceSvc,
		overviewSvc: p.OverviewSvc,
		historyRepo: p.HistoryRepo,
		changes:     p.Changes,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1", s.TokenRequired())

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.LaunchProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.DELETE("/products/:id", s.DeleteProduct)
	api.POST("/products/:id/metrics", s.ApplyProductMetrics)
	api.POST("/products/:id/corrections", s.ApplyProductCorrection)

	// -------- Expenses --------
	api.GET("/expenses", s.ListExpenses)
	api.POST("/expenses", s.CreateExpense)

	// -------- Shipments --------
	api.GET("/shipments", s.ListShipments)
	api.POST("/shipments", s.CreateShipment)
	api.PATCH("/shipments/:id/status", s.UpdateShipmentStatus)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.POST("/invoices/:id/toggle-paid", s.ToggleInvoicePaid)

	// -------- History / Overview --------
	api.GET("/history", s.ListHistory)
	api.GET("/overview", s.GetOverview)

	api.GET("/stream/:collection", s.StreamChanges)
}
