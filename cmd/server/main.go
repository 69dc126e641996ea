package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/leasedesk/backend/internal/application/billing"
	masterdataapp "github.com/leasedesk/backend/internal/application/masterdata"
	terminationapp "github.com/leasedesk/backend/internal/application/termination"
	"github.com/leasedesk/backend/internal/infrastructure/auth"
	"github.com/leasedesk/backend/internal/infrastructure/cache"
	"github.com/leasedesk/backend/internal/infrastructure/config"
	"github.com/leasedesk/backend/internal/infrastructure/logger"
	"github.com/leasedesk/backend/internal/infrastructure/notification"
	"github.com/leasedesk/backend/internal/infrastructure/persistence"
	"github.com/leasedesk/backend/internal/infrastructure/storage"
	"github.com/leasedesk/backend/internal/interfaces/http/handler"
	"github.com/leasedesk/backend/internal/interfaces/http/middleware"
	"github.com/leasedesk/backend/internal/interfaces/http/router"
)

//	@title			LeaseDesk API
//	@version		1.0
//	@description	Property lease back-office: invoicing, receipt allocation, termination settlements

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting LeaseDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	invoiceRepo := persistence.NewGormLeaseInvoiceRepository(db.DB)
	receiptRepo := persistence.NewGormLeaseReceiptRepository(db.DB)
	terminationRepo := persistence.NewGormContractTerminationRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	costCenterRepo := persistence.NewGormCostCenterRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	deductionChargeRepo := persistence.NewGormDeductionChargeRepository(db.DB)
	emailTemplateRepo := persistence.NewGormEmailTemplateRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)

	// Read-only gateways into the leasing context
	contractGateway := persistence.NewGormContractGateway(db.DB)
	customerGateway := persistence.NewGormCustomerGateway(db.DB)
	taxGateway := persistence.NewGormTaxGateway(db.DB)

	// Exchange rate cache: Redis when reachable, in-process fallback otherwise
	var rateCache masterdataapp.RateCache
	if redisCache, err := cache.NewRedisRateCache(&cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory rate cache", zap.Error(err))
		rateCache = cache.NewInMemoryRateCache()
	} else {
		rateCache = redisCache
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis rate cache", zap.Error(err))
			}
		}()
	}

	// Attachment storage: S3 when a bucket is configured, stub otherwise
	var attachmentStore terminationapp.AttachmentStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3AttachmentStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 attachment store", zap.Error(err))
		}
		attachmentStore = s3Store
		log.Info("S3 attachment store initialized",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("region", cfg.Storage.Region),
		)
	} else {
		attachmentStore = storage.NewStubAttachmentStore()
		log.Warn("No storage bucket configured, attachment URLs will be local stubs")
	}

	// Notification gateway: domain events enqueue emails into the outbox
	notificationGateway := notification.NewOutboxNotificationGateway(outboxRepo, log)

	// Initialize application services
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, contractGateway, customerGateway, taxGateway, notificationGateway, log)
	receiptService := billingapp.NewReceiptService(receiptRepo, invoiceRepo, contractGateway, customerGateway, notificationGateway, log)
	terminationService := terminationapp.NewTerminationService(
		terminationRepo, invoiceRepo, receiptRepo, deductionChargeRepo,
		contractGateway, customerGateway, attachmentStore, notificationGateway, log,
	)
	masterDataService := masterdataapp.NewMasterDataService(
		currencyRepo, costCenterRepo, supplierRepo, companyRepo,
		deductionChargeRepo, emailTemplateRepo, rateCache, log,
	)

	// JWT service for API authentication
	jwtService := auth.NewJWTService(cfg.JWT)

	// Start the email dispatcher (if enabled)
	if cfg.Notification.DispatcherEnabled {
		dispatcher := notification.NewDispatcher(
			outboxRepo,
			emailTemplateRepo,
			notification.NewLogEmailSender(log),
			notification.DispatcherConfig{
				BatchSize:      cfg.Notification.BatchSize,
				PollInterval:   cfg.Notification.PollInterval,
				CleanupEnabled: true,
			},
			log,
		)
		if err := dispatcher.Start(context.Background()); err != nil {
			log.Fatal("Failed to start email dispatcher", zap.Error(err))
		}
		defer func() {
			if err := dispatcher.Stop(context.Background()); err != nil {
				log.Error("Error stopping email dispatcher", zap.Error(err))
			}
		}()
		log.Info("Email dispatcher started",
			zap.Int("batch_size", cfg.Notification.BatchSize),
			zap.Duration("poll_interval", cfg.Notification.PollInterval),
		)
	}

	// Initialize HTTP handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	terminationHandler := handler.NewTerminationHandler(terminationService)
	masterDataHandler := handler.NewMasterDataHandler(masterDataService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Billing domain (invoices, receipts)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "billing service ready"})
	})

	// Invoice routes
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/charge-lines", invoiceHandler.AddChargeLine)
	billingRoutes.DELETE("/invoices/:id/charge-lines/:lineId", invoiceHandler.RemoveChargeLine)
	billingRoutes.POST("/invoices/:id/post", invoiceHandler.Post)
	billingRoutes.PUT("/invoices/:id/status", invoiceHandler.ChangeStatus)

	// Receipt routes
	billingRoutes.POST("/receipts", receiptHandler.Create)
	billingRoutes.GET("/receipts", receiptHandler.List)
	billingRoutes.GET("/receipts/:id", receiptHandler.GetByID)
	billingRoutes.DELETE("/receipts/:id", receiptHandler.Delete)
	billingRoutes.POST("/receipts/:id/allocations", receiptHandler.Allocate)
	billingRoutes.DELETE("/receipts/:id/allocations/:invoiceId", receiptHandler.Deallocate)
	billingRoutes.PUT("/receipts/:id/clearing", receiptHandler.ToggleClearing)
	billingRoutes.PUT("/receipts/:id/status", receiptHandler.ChangeStatus)

	// Termination domain (settlement lifecycle with approval workflow)
	terminationRoutes := router.NewDomainGroup("termination", "/terminations")
	terminationRoutes.POST("", terminationHandler.Create)
	terminationRoutes.GET("", terminationHandler.List)
	terminationRoutes.GET("/:id", terminationHandler.GetByID)
	terminationRoutes.DELETE("/:id", terminationHandler.Delete)
	terminationRoutes.POST("/:id/deductions", terminationHandler.AddDeduction)
	terminationRoutes.DELETE("/:id/deductions/:deductionId", terminationHandler.RemoveDeduction)
	terminationRoutes.PUT("/:id/adjustment", terminationHandler.SetAdjustAmount)
	terminationRoutes.POST("/:id/recalculate", terminationHandler.Recalculate)
	terminationRoutes.POST("/:id/submit", terminationHandler.Submit)
	terminationRoutes.POST("/:id/approve", middleware.RequireAnyRole(middleware.RoleManager), terminationHandler.Approve)
	terminationRoutes.POST("/:id/reject", middleware.RequireAnyRole(middleware.RoleManager), terminationHandler.Reject)
	terminationRoutes.POST("/:id/reset-approval", middleware.RequireAnyRole(middleware.RoleManager), terminationHandler.ResetApproval)
	terminationRoutes.POST("/:id/refund", terminationHandler.ProcessRefund)
	terminationRoutes.POST("/:id/complete", terminationHandler.Complete)
	terminationRoutes.POST("/:id/cancel", terminationHandler.Cancel)
	terminationRoutes.POST("/:id/documents", terminationHandler.AttachDocument)
	terminationRoutes.DELETE("/:id/documents/:attachmentId", terminationHandler.RemoveDocument)

	// Master data domain (currencies, cost centers, suppliers, templates)
	masterDataRoutes := router.NewDomainGroup("masterdata", "/masterdata")
	masterDataRoutes.POST("/currencies", masterDataHandler.CreateCurrency)
	masterDataRoutes.GET("/currencies", masterDataHandler.ListCurrencies)
	masterDataRoutes.GET("/currencies/:code/rate", masterDataHandler.GetExchangeRate)
	masterDataRoutes.PUT("/currencies/:code/rate", masterDataHandler.UpdateExchangeRate)
	masterDataRoutes.POST("/cost-centers", masterDataHandler.CreateCostCenter)
	masterDataRoutes.GET("/cost-centers", masterDataHandler.ListCostCenters)
	masterDataRoutes.POST("/deduction-charges", masterDataHandler.CreateDeductionCharge)
	masterDataRoutes.GET("/deduction-charges", masterDataHandler.ListDeductionCharges)
	masterDataRoutes.PUT("/email-templates", masterDataHandler.UpsertEmailTemplate)
	masterDataRoutes.GET("/email-templates", masterDataHandler.ListEmailTemplates)
	masterDataRoutes.POST("/suppliers", masterDataHandler.CreateSupplier)
	masterDataRoutes.GET("/suppliers", masterDataHandler.ListSuppliers)
	masterDataRoutes.GET("/companies", masterDataHandler.ListCompanies)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(billingRoutes).
		Register(terminationRoutes).
		Register(masterDataRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
