package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"bharatbiz/internal/agent"
	"bharatbiz/internal/caching"
	"bharatbiz/internal/config"
	"bharatbiz/internal/handlers"
	"bharatbiz/internal/jobs/background"
	"bharatbiz/internal/logger"
	"bharatbiz/internal/middleware"
	"bharatbiz/internal/repositories"
	"bharatbiz/internal/services"
	"bharatbiz/pkg/database"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logger.WithComponent("main")

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			log.Fatal().Err(err).Msg("failed to generate JWT secret")
		}
		jwtSecret = hex.EncodeToString(buf)
		log.Warn().Msg("JWT_SECRET not set, using a generated secret; sessions will not survive restarts")
	}

	ctx := context.Background()
	store, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	// Repositories: the embedded document store and Postgres share the same
	// interfaces, so everything downstream is backend-agnostic.
	var (
		userRepo     repositories.UserRepository
		invoiceRepo  repositories.InvoiceRepository
		customerRepo repositories.CustomerRepository
		productRepo  repositories.ProductRepository
		expenseRepo  repositories.ExpenseRepository
	)
	if store.Embedded() {
		userRepo = repositories.NewUserDocRepo(store.Docs)
		invoiceRepo = repositories.NewInvoiceDocRepo(store.Docs)
		customerRepo = repositories.NewCustomerDocRepo(store.Docs)
		productRepo = repositories.NewProductDocRepo(store.Docs)
		expenseRepo = repositories.NewExpenseDocRepo(store.Docs)
	} else {
		userRepo = repositories.NewUserPgRepo(store.Pool)
		invoiceRepo = repositories.NewInvoicePgRepo(store.Pool)
		customerRepo = repositories.NewCustomerPgRepo(store.Pool)
		productRepo = repositories.NewProductPgRepo(store.Pool)
		expenseRepo = repositories.NewExpensePgRepo(store.Pool)
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	var aiClient *openai.Client
	if cfg.OpenAIAPIKey != "" {
		aiClient = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, using keyword classification and demo OCR")
	}

	minioSvc, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	// Services
	authSvc := services.NewAuthService(userRepo, jwtSecret)
	ledgerSvc := services.NewLedgerService(invoiceRepo, customerRepo, productRepo, expenseRepo, cacheSvc)
	reminderSvc := services.NewReminderService(invoiceRepo, customerRepo, services.NewLogSender())
	receiptSvc := services.NewReceiptService(minioSvc, cfg.ReceiptBucket, aiClient, cfg.OpenAIModel)
	voiceSvc := services.NewVoiceService(aiClient)
	analyticsSvc := services.NewAnalyticsService(invoiceRepo, cacheSvc)

	// Conversational pipeline
	classifier := agent.NewClassifier(aiClient, cfg.OpenAIModel, cfg.ClassifyTimeout)
	executor := agent.NewExecutor(ledgerSvc, reminderSvc)
	gate := agent.NewGate(classifier, executor, cfg.ConfirmationTTL)

	if store.Embedded() {
		seedDemoUser(ctx, authSvc, log)
	}

	// Background jobs
	scheduler, err := background.NewJobScheduler(ledgerSvc, reminderSvc, cfg.OverdueAfter)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	agentHandlers := handlers.NewAgentHandlers(gate, cacheSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(ledgerSvc, invoiceRepo)
	customerHandlers := handlers.NewCustomerHandlers(customerRepo, ledgerSvc)
	expenseHandlers := handlers.NewExpenseHandlers(ledgerSvc, expenseRepo)
	productHandlers := handlers.NewProductHandlers(productRepo)
	receiptHandlers := handlers.NewReceiptHandlers(receiptSvc)
	statsHandlers := handlers.NewStatsHandlers(ledgerSvc, customerRepo)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	voiceHandlers := handlers.NewVoiceHandlers(voiceSvc)
	paymentHandlers := handlers.NewPaymentHandlers(reminderSvc)
	healthHandlers := handlers.NewHealthHandlers()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.Check)

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)

	api := e.Group("/api")
	api.Use(middleware.JWTMiddleware(userRepo, jwtSecret))

	api.POST("/chat", agentHandlers.Chat)

	api.POST("/invoices", invoiceHandlers.Create)
	api.GET("/invoices", invoiceHandlers.List)
	api.GET("/invoices/:id", invoiceHandlers.Get)
	api.PATCH("/invoices/:id/status", invoiceHandlers.UpdateStatus)
	api.DELETE("/invoices/:id", invoiceHandlers.Delete)

	api.POST("/customers", customerHandlers.Create)
	api.GET("/customers", customerHandlers.List)
	api.GET("/customers/:name/balance", customerHandlers.Balance)

	api.POST("/expenses", expenseHandlers.Create)
	api.GET("/expenses", expenseHandlers.List)
	api.GET("/expenses/today", expenseHandlers.Today)

	api.POST("/products", productHandlers.Create)
	api.GET("/products", productHandlers.List)
	api.PATCH("/products/:id/stock", productHandlers.SetStock)

	api.POST("/receipts", receiptHandlers.Upload)
	api.POST("/ocr/analyze", receiptHandlers.Analyze)

	api.POST("/voice/speak", voiceHandlers.Speak)
	api.POST("/voice/transcribe", voiceHandlers.Transcribe)

	api.GET("/stats", statsHandlers.Get)
	api.GET("/analytics", analyticsHandlers.Get)
	api.POST("/payments/:invoiceID/remind", paymentHandlers.Remind)

	log.Info().Str("version", version).Str("port", cfg.Port).Bool("embedded_store", store.Embedded()).Msg("server starting")
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

// seedDemoUser creates a ready-to-use account for embedded-store runs, so
// the system works out of the box without a registration step.
func seedDemoUser(ctx context.Context, authSvc services.AuthService, log zerolog.Logger) {
	const demoPhone = "9876543210"
	if _, err := authSvc.Register(ctx, demoPhone, "password123", "Demo User", "Demo Kirana Store"); err != nil {
		log.Warn().Err(err).Msg("demo user seed skipped")
		return
	}
	log.Info().Str("phone", demoPhone).Msg("demo user seeded")
}
