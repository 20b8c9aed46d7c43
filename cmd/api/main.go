package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/config"
	"github.com/noah-isme/edura-go-api/internal/database"
	"github.com/noah-isme/edura-go-api/internal/handler"
	"github.com/noah-isme/edura-go-api/internal/middleware"
	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
	"github.com/noah-isme/edura-go-api/internal/router"
	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/pkg/identity"
	"github.com/noah-isme/edura-go-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Purchase{}, &models.CourseBatch{}, &models.Enrollment{}, &models.AuditLog{}, &models.User{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	txRunner := repository.NewTxRunner(db, cfg.TxMaxRetries, logger)
	batchRepo := repository.NewBatchRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	userRepo := repository.NewUserRepository(db)

	claimsAuthority := identity.NewClaimsAuthority(redisClient)
	tokenIssuer := identity.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, claimsAuthority)

	engine := service.NewEnrollmentEngine(txRunner, batchRepo, enrollmentRepo, auditRepo, logger)
	reconciler := service.NewPurchaseReconciler(purchaseRepo, logger)
	purchaseService := service.NewPurchaseService(purchaseRepo, validate, natsConn, cfg.PurchaseSubject, logger)
	batchService := service.NewBatchService(batchRepo, validate, logger)
	roleService := service.NewRoleService(userRepo, claimsAuthority, auditRepo, logger)
	exportService := service.NewExportService(cfg.ExportAPIURL, cfg.ExportInterval, logger)

	// Invoice generation needs storage credentials; without them the rest of
	// the API still comes up and the invoice routes are simply absent.
	var invoiceHandler *handler.InvoiceHandler
	uploader, err := storage.New(storage.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("storage client unavailable, invoice generation disabled")
	} else {
		invoiceService := service.NewInvoiceService(purchaseService, uploader, logger)
		invoiceHandler = handler.NewInvoiceHandler(invoiceService, logger)
	}

	worker := service.NewPurchaseWorker(natsConn, cfg.PurchaseSubject, engine, reconciler, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app)
	router.Register(app, cfg, router.Dependencies{
		PurchaseHandler: handler.NewPurchaseHandler(purchaseService, logger),
		EnrollHandler:   handler.NewEnrollHandler(engine, enrollmentRepo, logger),
		BatchHandler:    handler.NewBatchHandler(batchService, logger),
		RoleHandler:     handler.NewRoleHandler(roleService, validate, logger),
		WebhookHandler:  handler.NewWebhookHandler(purchaseService, logger),
		AuditHandler:    handler.NewAuditHandler(auditRepo, logger),
		AuthHandler:     handler.NewAuthHandler(tokenIssuer, validate, logger),
		InvoiceHandler:  invoiceHandler,
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Start(ctx); err != nil {
		log.Fatalf("failed to start purchase worker: %v", err)
	}
	exportService.Start(ctx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(ctx, app)
}

func waitForShutdown(ctx context.Context, app *fiber.App) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
