package router

import (
	"time"

	"pharmapos/internal/config"
	"pharmapos/internal/handler"
	"pharmapos/internal/infra"
	"pharmapos/internal/middleware"
	"pharmapos/internal/repository"
	"pharmapos/internal/service"
	"pharmapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps carries everything main needs back out of the wiring step to start
// the background machinery.
type Deps struct {
	Engine          *gin.Engine
	Dispatcher      *worker.Dispatcher
	Mailer          *infra.Mailer
	ReminderService *service.ReminderService
	InvoiceRepo     repository.InvoiceRepository
	ReceiptRepo     repository.ReceiptRepository
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Deps {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	importRepo := repository.NewImportRecordRepository(db)
	shortageRepo := repository.NewShortageRepository(db)
	advanceRepo := repository.NewAdvanceRepository(db)
	purchaseRepo := repository.NewPurchaseInvoiceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour, cfg.AdminPhoneList())
	inventorySvc := service.NewInventoryService(medicineRepo, movementRepo, importRepo, log.Logger)
	medicineSvc := service.NewMedicineService(medicineRepo)
	billingSvc := service.NewBillingService(invoiceRepo, reminderRepo, receiptRepo,
		inventorySvc, dispatcher, log.Logger)
	reminderSvc := service.NewReminderService(reminderRepo, dispatcher, log.Logger)
	reportSvc := service.NewReportService(invoiceRepo, medicineRepo, reminderRepo,
		shortageRepo, advanceRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	medicinesH := handler.NewMedicinesHandler(medicineSvc, inventorySvc)
	billingH := handler.NewBillingHandler(billingSvc)
	invoicesH := handler.NewInvoicesHandler(billingSvc, invoiceRepo, rdb)
	reportsH := handler.NewReportsHandler(reportSvc)
	remindersH := handler.NewRemindersHandler(reminderSvc)
	shortagesH := handler.NewShortagesHandler(shortageRepo)
	advancesH := handler.NewAdvancesHandler(advanceRepo)
	purchasesH := handler.NewPurchasesHandler(purchaseRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/signup", authH.Signup)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Public invoice view — the QR code on printed receipts, no auth required
	r.GET("/v1/public/invoices/:id", invoicesH.PublicView)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole("customer", "admin")
	admin := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Billing
		v1.POST("/bills", staff, billingH.CreateBill)

		// Invoices (read side)
		v1.GET("/invoices", staff, invoicesH.List)
		v1.GET("/invoices/:id", staff, invoicesH.Get)
		v1.DELETE("/invoices/:id", admin, invoicesH.Delete)
		v1.GET("/customers/search", staff, invoicesH.SearchCustomers)
		v1.GET("/customers/:phone/history", staff, invoicesH.CustomerHistory)

		// Catalog — everyone authenticated can read, admin writes
		v1.GET("/medicines", staff, medicinesH.List)
		v1.GET("/medicines/:id", staff, medicinesH.Get)
		v1.PATCH("/medicines/:id/stock", admin, medicinesH.AdjustStock)
		meds := v1.Group("/medicines", admin)
		{
			meds.POST("", medicinesH.Create)
			meds.PUT("/:id", medicinesH.Update)
			meds.DELETE("/:id", medicinesH.Delete)
			meds.POST("/import", medicinesH.Import)
		}
		v1.GET("/stock-movements", admin, medicinesH.Movements)

		// Reports
		v1.GET("/reports/dashboard", staff, reportsH.Dashboard)
		v1.GET("/reports/period", admin, reportsH.PeriodReport)

		// Reminders
		v1.GET("/reminders", staff, remindersH.List)
		v1.POST("/reminders/:id/dismiss", staff, remindersH.Dismiss)

		// Counter book
		v1.POST("/shortages", staff, shortagesH.Create)
		v1.GET("/shortages", staff, shortagesH.ListPending)
		v1.POST("/shortages/:id/resolve", staff, shortagesH.Resolve)

		v1.POST("/advances", staff, advancesH.Create)
		v1.GET("/advances", staff, advancesH.ListUndelivered)
		v1.POST("/advances/:id/deliver", staff, advancesH.MarkDelivered)

		v1.POST("/purchases", admin, purchasesH.Create)
		v1.GET("/purchases", admin, purchasesH.List)
		v1.DELETE("/purchases/:id", admin, purchasesH.Delete)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &Deps{
		Engine:          r,
		Dispatcher:      dispatcher,
		Mailer:          mailer,
		ReminderService: reminderSvc,
		InvoiceRepo:     invoiceRepo,
		ReceiptRepo:     receiptRepo,
	}
}
