package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"mindpay/internal/auth"
	"mindpay/internal/commission"
	"mindpay/internal/config"
	"mindpay/internal/dashboard"
	"mindpay/internal/notify"
	"mindpay/internal/packages"
	"mindpay/internal/payout"
	"mindpay/internal/session"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

// New wires repositories, services and handlers onto one router. queue may be
// nil, in which case settled payouts are not announced.
func New(db *sqlx.DB, cfg *config.Config, queue *notify.Queue) *Server {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	sessions := session.NewRepository(db)
	packageRepo := packages.NewRepository(db)
	schedules := commission.NewScheduleRepository(db)
	history := commission.NewHistoryRepository(db)

	finalizer := commission.NewFinalizer(sessions, packages.NewTracker(packageRepo, sessions), schedules, history)
	aggregator := payout.NewAggregator(sessions, packageRepo, schedules, history, cfg.DefaultCommissionRate)

	var notifier payout.Notifier
	if queue != nil {
		notifier = queue
	}

	commissionHandler := commission.NewHandler(commission.NewService(schedules, history, packageRepo), finalizer)
	payoutHandler := payout.NewHandler(payout.NewService(payout.NewRepository(db), history, aggregator, finalizer, notifier))
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(aggregator, history))

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	if cfg.DocsEnabled() {
		SetupSwagger(router)
	}

	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(cfg.JWTSecret), auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/dashboard", dashboardHandler.GetStats)

		admin.GET("/commissions", commissionHandler.ListCommissions)
		admin.GET("/commissions/:providerID/history", commissionHandler.ListVersions)
		admin.PUT("/commissions/:providerID", commissionHandler.UpdateSchedule)
		admin.POST("/sessions/:sessionID/finalize", commissionHandler.FinalizeSession)

		admin.GET("/payouts", payoutHandler.List)
		admin.GET("/payouts/pending", payoutHandler.Pending)
		admin.POST("/payouts/settle", payoutHandler.Settle)
		admin.POST("/payouts/mark-paid", payoutHandler.MarkAsPaid)
		admin.GET("/payouts/:payoutID", payoutHandler.Get)

		if queue != nil {
			admin.GET("/notifications/queue", NotificationQueue(queue))
		}
	}

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
