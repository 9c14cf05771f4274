package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	condominiumdomain "github.com/vecinohq/vecino/internal/condominium/domain"
	"github.com/vecinohq/vecino/internal/config"
	expensedomain "github.com/vecinohq/vecino/internal/expense/domain"
	"github.com/vecinohq/vecino/internal/metrics"
	paymentdomain "github.com/vecinohq/vecino/internal/payment/domain"
	settlementdomain "github.com/vecinohq/vecino/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine             *gin.Engine
	cfg                config.Config
	condominiumSvc     condominiumdomain.Service
	expenseSvc         expensedomain.Service
	paymentSvc         paymentdomain.Service
	settlementSvc      settlementdomain.Service
	settlementDefaults *config.SettlementDefaultsHolder
}

type ServerParams struct {
	fx.In

	Gin                *gin.Engine
	Cfg                config.Config
	CondominiumSvc     condominiumdomain.Service
	ExpenseSvc         expensedomain.Service
	PaymentSvc         paymentdomain.Service
	SettlementSvc      settlementdomain.Service
	SettlementDefaults *config.SettlementDefaultsHolder
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:             p.Gin,
		cfg:                p.Cfg,
		condominiumSvc:     p.CondominiumSvc,
		expenseSvc:         p.ExpenseSvc,
		paymentSvc:         p.PaymentSvc,
		settlementSvc:      p.SettlementSvc,
		settlementDefaults: p.SettlementDefaults,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Condominiums --------
	api.GET("/condominiums", s.ListCondominiums)
	api.POST("/condominiums", s.CreateCondominium)
	api.GET("/condominiums/:id", s.GetCondominiumByID)
	api.PATCH("/condominiums/:id", s.UpdateCondominium)

	condo := api.Group("/condominiums/:id")

	// -------- Units --------
	condo.GET("/units", s.ListUnits)
	condo.POST("/units", s.CreateUnit)
	condo.GET("/units/:unitId", s.GetUnitByID)
	condo.PATCH("/units/:unitId", s.UpdateUnit)

	// -------- Expenses --------
	condo.GET("/expenses", s.ListExpenses)
	condo.POST("/expenses", s.CreateExpense)
	condo.GET("/expenses/:expenseId", s.GetExpenseByID)
	condo.DELETE("/expenses/:expenseId", s.DeleteExpense)

	// -------- Payments --------
	condo.GET("/payments", s.ListPayments)
	condo.POST("/payments", s.CreatePayment)
	condo.GET("/payments/:paymentId", s.GetPaymentByID)
	condo.POST("/payments/:paymentId/confirm", s.ConfirmPayment)
	condo.POST("/payments/:paymentId/reject", s.RejectPayment)

	// -------- Settlements --------
	condo.GET("/settlements", s.ListSettlements)
	condo.GET("/settlements/:period", s.GetSettlementByPeriod)
	condo.POST("/settlements/draft", s.DraftSettlement)
	condo.POST("/settlements/confirm", s.ConfirmSettlement)
}
