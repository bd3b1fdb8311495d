package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hli122/salesops-analytics-db/internal/config"
	obslogger "github.com/hli122/salesops-analytics-db/internal/observability/logger"
	obsmetrics "github.com/hli122/salesops-analytics-db/internal/observability/metrics"
	obstracing "github.com/hli122/salesops-analytics-db/internal/observability/tracing"
	"github.com/hli122/salesops-analytics-db/internal/quality"
	qualitydomain "github.com/hli122/salesops-analytics-db/internal/quality/domain"
	"github.com/hli122/salesops-analytics-db/internal/reporting"
	reportingdomain "github.com/hli122/salesops-analytics-db/internal/reporting/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	reporting.Module,
	quality.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	log          *zap.Logger
	reportingSvc reportingdomain.Service
	qualitySvc   qualitydomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	ReportingSvc reportingdomain.Service
	QualitySvc   qualitydomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		reportingSvc: p.ReportingSvc,
		qualitySvc:   p.QualitySvc,
	}

	svc.registerReportRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerReportRoutes() {
	reports := s.engine.Group("/reports")

	reports.GET("/weekly-summary", s.GetWeeklySummary)
	reports.GET("/seller-ranking", s.GetSellerRanking)
	reports.GET("/top-products", s.GetTopProducts)
	reports.GET("/shipping-breakdown", s.GetShippingBreakdown)
	reports.GET("/data-quality", s.GetDataQuality)
	reports.GET("/data-quality/samples", s.GetDataQualitySamples)
}
