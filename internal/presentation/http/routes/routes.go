package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/config"
	domainRepo "github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/internal/presentation/http/handler"
	"github.com/sangkips/quotation-engine/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health     *handler.HealthHandler
	Quotation  *handler.QuotationHandler
	Export     *handler.ExportHandler
	Suggestion *handler.SuggestionHandler
	Asset      *handler.AssetHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *slog.Logger
	Now             func() time.Time
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFor(
			deps.Cfg.RateLimit.Requests,
			time.Duration(deps.Cfg.RateLimit.Duration)*time.Second,
		))
		v1.Use(rateLimiter.Middleware())
		v1.Use(middleware.ReadOnlyGuard(deps.Cfg.App.ReadOnly))

		v1.GET("/health", h.Health.Health)
		v1.GET("/quotation-statuses", h.Health.Statuses)

		idempotent := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: logger,
			Now:    deps.Now,
		})
		registerQuotationRoutes(v1, h, idempotent)

		v1.GET("/catalog/presets", h.Quotation.ListPresets)
		v1.POST("/assets", h.Asset.Upload)
	}

	return router
}

func registerQuotationRoutes(v1 *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	quotations := v1.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", idempotent, h.Quotation.Create)
		quotations.GET("/number/:number", h.Quotation.GetByNumber)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.DELETE("/:id", h.Quotation.Delete)
		quotations.POST("/:id/copy", idempotent, h.Quotation.Copy)
		quotations.PUT("/:id/project", h.Quotation.ReassignProject)

		// Lifecycle
		quotations.POST("/:id/status", h.Quotation.Transition)
		quotations.POST("/:id/sign", h.Quotation.Sign)
		quotations.POST("/:id/convert", h.Quotation.Convert)

		// Draft edits
		quotations.DELETE("/:id/options/:opt", h.Quotation.RemoveOption)
		quotations.POST("/:id/options/:opt/categories", h.Quotation.AddCategory)
		quotations.POST("/:id/options/:opt/categories/:cat/items", h.Quotation.AddItem)
		quotations.PATCH("/:id/options/:opt/categories/:cat/items/:item", h.Quotation.UpdateItem)
		quotations.DELETE("/:id/options/:opt/categories/:cat/items/:item", h.Quotation.RemoveItem)
		quotations.POST("/:id/presets/:preset", h.Quotation.ApplyPreset)
		quotations.POST("/:id/suggestions", h.Suggestion.Apply)

		// Documents
		quotations.GET("/:id/export", h.Export.Export)
		quotations.POST("/:id/photo-report", h.Export.PhotoReport)
	}
}
