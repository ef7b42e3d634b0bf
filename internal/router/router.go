package router

import (
	"time"

	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/config"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/handler"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/middleware"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/repository"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/service"
	"github.com/mirandaricardomaunze/sistemaDeGestaoModular-sub007/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	txr := repository.NewTxRunner(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	warehouseStockRepo := repository.NewWarehouseStockRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	creditRepo := repository.NewCreditPaymentRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	ledgerSvc := service.NewLedgerService(productRepo, warehouseRepo, warehouseStockRepo, movementRepo, alertRepo, txr, dispatcher)
	batchSvc := service.NewBatchService(batchRepo, ledgerSvc, txr)
	saleSvc := service.NewSaleService(saleRepo, productRepo, batchRepo, sessionRepo, sequenceRepo, ledgerSvc, txr, dispatcher)
	sessionSvc := service.NewSessionService(sessionRepo, saleRepo, txr)
	creditSvc := service.NewCreditService(saleRepo, creditRepo, txr)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	stockH := handler.NewStockHandler(ledgerSvc)
	batchesH := handler.NewBatchesHandler(batchSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	creditH := handler.NewCreditHandler(creditSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, supervisor, admin — declared per-endpoint
		stock := v1.Group("/stock")
		{
			stock.POST("/movements", middleware.RequireRole("supervisor", "admin"), stockH.Record)
			stock.GET("/movements", middleware.RequireRole("cashier", "supervisor", "admin"), stockH.ListMovements)
			stock.POST("/adjustments", middleware.RequireRole("supervisor", "admin"), stockH.Adjust)
			stock.POST("/transfers", middleware.RequireRole("supervisor", "admin"), stockH.Transfer)
			stock.GET("/alerts", middleware.RequireRole("cashier", "supervisor", "admin"), stockH.ListAlerts)
		}
		v1.GET("/products/:id/stock", middleware.RequireRole("cashier", "supervisor", "admin"), stockH.Status)
		v1.GET("/products/:id/batches", middleware.RequireRole("cashier", "supervisor", "admin"), batchesH.ListFEFO)

		batches := v1.Group("/batches", middleware.RequireRole("supervisor", "admin"))
		{
			batches.POST("", batchesH.Create)
			batches.POST("/:id/expire", batchesH.MarkExpired)
		}

		sales := v1.Group("/sales", middleware.RequireRole("cashier", "supervisor", "admin"))
		{
			sales.POST("", salesH.Create)
			sales.POST("/regulated", salesH.CreateRegulated)
			sales.GET("", salesH.List)
		}

		sessions := v1.Group("/sessions", middleware.RequireRole("cashier", "supervisor", "admin"))
		{
			sessions.POST("/open", sessionsH.Open)
			sessions.POST("/withdrawals", sessionsH.Withdraw)
			sessions.POST("/deposits", sessionsH.Deposit)
			sessions.POST("/close", sessionsH.Close)
			sessions.GET("/current", sessionsH.Current)
		}

		credit := v1.Group("/credit", middleware.RequireRole("cashier", "supervisor", "admin"))
		{
			credit.POST("/payments", creditH.Pay)
			credit.GET("/customers/:id/balance", creditH.CustomerBalance)
		}
	}

	return r
}
