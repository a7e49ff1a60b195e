package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arclear/arclear/internal/activity"
	activitydomain "github.com/arclear/arclear/internal/activity/domain"
	"github.com/arclear/arclear/internal/config"
	"github.com/arclear/arclear/internal/customer"
	customerdomain "github.com/arclear/arclear/internal/customer/domain"
	"github.com/arclear/arclear/internal/dashboard"
	dashboarddomain "github.com/arclear/arclear/internal/dashboard/domain"
	"github.com/arclear/arclear/internal/ingest"
	ingestdomain "github.com/arclear/arclear/internal/ingest/domain"
	"github.com/arclear/arclear/internal/invoice"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	obslogger "github.com/arclear/arclear/internal/observability/logger"
	obsmetrics "github.com/arclear/arclear/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	customer.Module,
	invoice.Module,
	activity.Module,
	ingest.Module,
	dashboard.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
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
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	customerSvc  customerdomain.Service
	invoiceSvc   invoicedomain.Service
	activitySvc  activitydomain.Service
	ingestSvc    ingestdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CustomerSvc  customerdomain.Service
	InvoiceSvc   invoicedomain.Service
	ActivitySvc  activitydomain.Service
	IngestSvc    ingestdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		customerSvc:  p.CustomerSvc,
		invoiceSvc:   p.InvoiceSvc,
		activitySvc:  p.ActivitySvc,
		ingestSvc:    p.IngestSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.OrgContext())

	api.POST("/uploads", s.UploadInvoices)
	api.GET("/uploads/:id", s.GetUpload)
	api.GET("/dashboard", s.GetDashboard)
	api.PATCH("/invoices/:id", s.UpdateInvoice)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.GET("/activities", s.ListActivities)
}
