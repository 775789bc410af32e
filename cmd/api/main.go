package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/application/render"
	"github.com/sangkips/quotation-engine/internal/application/service"
	"github.com/sangkips/quotation-engine/internal/config"
	"github.com/sangkips/quotation-engine/internal/domain/catalog"
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	domainRepo "github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/internal/infrastructure/ai"
	"github.com/sangkips/quotation-engine/internal/infrastructure/cache"
	"github.com/sangkips/quotation-engine/internal/infrastructure/database"
	"github.com/sangkips/quotation-engine/internal/infrastructure/memory"
	"github.com/sangkips/quotation-engine/internal/infrastructure/messaging"
	"github.com/sangkips/quotation-engine/internal/infrastructure/repository"
	"github.com/sangkips/quotation-engine/internal/infrastructure/scheduler"
	"github.com/sangkips/quotation-engine/internal/infrastructure/storage"
	"github.com/sangkips/quotation-engine/internal/presentation/http/handler"
	"github.com/sangkips/quotation-engine/internal/presentation/http/routes"
	"github.com/sangkips/quotation-engine/pkg/utils"
)

type stores struct {
	quotations  domainRepo.QuotationRepository
	sequences   domainRepo.SequenceRepository
	idempotency domainRepo.IdempotencyRepository
	ping        handler.HealthCheck
}

func main() {
	// Load configuration
	cfg := config.Load()

	level := slog.LevelInfo
	if cfg.App.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := openStores(cfg)
	checks := map[string]handler.HealthCheck{}
	if st.ping != nil {
		checks["database"] = st.ping
	}

	// Optional collaborators fall back to null implementations
	var files domainRepo.FileStorage = storage.Unavailable{}
	if cfg.Storage.Configured() {
		minioStorage, err := storage.NewMinioStorage(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Warn("file storage unavailable", "error", err)
		} else {
			files = minioStorage
		}
	}

	var documentCache domainRepo.DocumentCache = cache.Disabled{}
	if cfg.Redis.Host != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("export cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			documentCache = redisCache
			checks["redis"] = redisCache.Ping
		}
	}

	var publisher domainRepo.EventPublisher = messaging.LogPublisher{Logger: logger}
	if cfg.RabbitMQ.Enabled {
		rabbit, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Queue, logger)
		if err != nil {
			logger.Warn("status events will only be logged", "error", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	cat := catalog.Default()
	var suggester domainRepo.ItemSuggester = ai.Disabled{}
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGeminiSuggester(ctx, cfg.AI.APIKey, cfg.AI.Model, cat, logger)
		if err != nil {
			logger.Warn("item suggestions disabled", "error", err)
		} else {
			defer gemini.Close()
			suggester = gemini
		}
	}

	// Initialize services
	quotationService := service.NewQuotationService(
		st.quotations,
		st.sequences,
		publisher,
		cat,
		utils.UUIDGenerator{},
		logger,
	)
	loader := render.NewAssetLoader(
		&render.Source{Storage: files, Client: &http.Client{Timeout: cfg.Export.FetchTimeout}},
		cfg.Export.FetchTimeout,
		logger,
	)
	exportService := service.NewExportService(quotationService, loader, documentCache, exportSettings(cfg), logger)
	suggestionService := service.NewSuggestionService(suggester, quotationService, logger)
	expiryService := service.NewExpiryService(st.quotations, st.idempotency, publisher, logger)

	// Scheduled jobs
	jobs := scheduler.New(logger)
	for _, job := range []scheduler.Job{
		{
			Name: "expire-quotations",
			Spec: cfg.Scheduler.ExpirySpec,
			Run: func(ctx context.Context) error {
				_, err := expiryService.ExpireDue(ctx)
				return err
			},
		},
		{
			Name: "purge-idempotency-keys",
			Spec: cfg.Scheduler.ExpirySpec,
			Run: func(ctx context.Context) error {
				_, err := expiryService.PurgeIdempotencyKeys(ctx)
				return err
			},
		},
	} {
		if err := jobs.Add(job); err != nil {
			log.Fatalf("Failed to schedule %s: %v", job.Name, err)
		}
	}
	jobs.Start()

	// Initialize handlers
	handlers := &routes.Handlers{
		Health:     handler.NewHealthHandler(cfg.App.Name, checks),
		Quotation:  handler.NewQuotationHandler(quotationService),
		Export:     handler.NewExportHandler(exportService),
		Suggestion: handler.NewSuggestionHandler(suggestionService),
		Asset:      handler.NewAssetHandler(files, cfg.Storage.UploadMaxSize),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: st.idempotency,
		Logger:          logger,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
		log.Printf("Environment: %s", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	jobs.Stop(shutdownCtx)
}

func openStores(cfg *config.Config) stores {
	if cfg.Database.Driver == "memory" {
		log.Printf("Warning: using the in-memory store, data is lost on restart")
		return stores{
			quotations:  memory.NewQuotationRepository(),
			sequences:   memory.NewSequenceRepository(),
			idempotency: memory.NewIdempotencyRepository(),
		}
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to access database pool: %v", err)
	}
	return stores{
		quotations:  repository.NewQuotationRepository(db),
		sequences:   repository.NewSequenceRepository(db),
		idempotency: repository.NewIdempotencyRepository(db),
		ping:        sqlDB.PingContext,
	}
}

func exportSettings(cfg *config.Config) service.ExportSettings {
	settings := service.ExportSettings{
		Company: render.Company{
			NameZH:      cfg.Company.NameZH,
			NameEN:      cfg.Company.NameEN,
			Address:     cfg.Company.Address,
			ContactLine: cfg.Company.ContactLine,
		},
		FontRef:        cfg.Export.FontRef,
		LogoRef:        cfg.Export.LogoRef,
		SealRef:        cfg.Export.SealRef,
		SigningBaseURL: cfg.Export.SigningBaseURL,
		PhotosPerPage:  cfg.Export.PhotosPerPage,
	}
	if cfg.Company.AccountNo != "" {
		settings.BankAccount = &entity.BankAccount{
			BankName:      cfg.Company.BankName,
			AccountName:   cfg.Company.AccountName,
			AccountNumber: cfg.Company.AccountNo,
		}
	}
	return settings
}
