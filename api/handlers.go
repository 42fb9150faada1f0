package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/internal/analytics"
	"github.com/gcbaptista/go-product-search/internal/catalog"
	"github.com/gcbaptista/go-product-search/internal/jobs"
	"github.com/gcbaptista/go-product-search/internal/logger"
	"github.com/gcbaptista/go-product-search/internal/metrics"
	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Engine    services.ProductSearch
	Suggester services.Suggester
	Catalog   catalog.Source
	Analytics *analytics.Service
	Jobs      *jobs.Manager
	Config    config.ServerConfig
	Logger    *zap.Logger
}

// API holds dependencies for API handlers.
type API struct {
	engine    services.ProductSearch
	suggester services.Suggester
	catalog   catalog.Source
	analytics *analytics.Service
	jobs      *jobs.Manager
	search    config.SearchConfig
	defaults  config.SearchOptions
	logger    *zap.Logger
}

// NewAPI creates a new API handler structure.
// A nil catalog serves an empty snapshot and a nil analytics service keeps
// events in a fresh in-memory store. Without a job manager one is created
// with the configured worker count; its cleanup loop is not started.
func NewAPI(deps Dependencies) *API {
	src := deps.Catalog
	if src == nil {
		src = catalog.NewStaticSource(nil)
	}
	tracker := deps.Analytics
	if tracker == nil {
		tracker = analytics.NewService(deps.Config.Search.AnalyticsCapacity)
	}
	log := logger.OrNop(deps.Logger)
	jobManager := deps.Jobs
	if jobManager == nil {
		jobManager = jobs.NewManager(deps.Config.JobWorkers, log)
	}

	return &API{
		engine:    deps.Engine,
		suggester: deps.Suggester,
		catalog:   src,
		analytics: tracker,
		jobs:      jobManager,
		search:    deps.Config.Search,
		defaults:  deps.Config.SearchOptions(),
		logger:    log,
	}
}

// SetupRoutes installs the middleware chain and every API route on router.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	apiHandler := NewAPI(deps)

	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(apiHandler.logger))
	router.Use(metrics.Middleware())
	router.Use(CORSMiddleware())
	if deps.Config.RateLimit.RPS > 0 {
		router.Use(RateLimitMiddleware(deps.Config.RateLimit, apiHandler.logger))
	}
	if deps.Config.MaxRequestBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(deps.Config.MaxRequestBytes))
	}

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	router.POST("/search", apiHandler.SearchHandler)
	router.POST("/multi-search", apiHandler.MultiSearchHandler)
	router.POST("/suggest", apiHandler.SuggestHandler)
	router.GET("/autocomplete", apiHandler.AutocompleteHandler)
	router.GET("/correct", apiHandler.CorrectHandler)
	router.POST("/highlight", apiHandler.HighlightHandler)

	router.POST("/catalog/refresh", apiHandler.RefreshCatalogHandler)
	router.GET("/jobs", apiHandler.ListJobsHandler)
	router.GET("/jobs/:jobId", apiHandler.GetJobHandler)
}

// snapshot returns the inline products when the request carried them,
// otherwise the configured catalog.
func (api *API) snapshot(ctx context.Context, inline []model.Product) ([]model.Product, error) {
	if inline != nil {
		return inline, nil
	}
	return api.catalog.Products(ctx)
}
