package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/api"
	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/internal/analytics"
	"github.com/gcbaptista/go-product-search/internal/catalog"
	"github.com/gcbaptista/go-product-search/internal/jobs"
	"github.com/gcbaptista/go-product-search/internal/logger"
	"github.com/gcbaptista/go-product-search/internal/search"
	"github.com/gcbaptista/go-product-search/model"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to a YAML config file (environment variables override it)")
		port       = flag.Int("port", 0, "Port to run the server on (overrides config)")
		catalogArg = flag.String("catalog", "", "Catalog file (.json/.yaml) or storefront base URL (overrides config)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Go Product Search - fuzzy, typo tolerant product search over a storefront catalog\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s --catalog ./products.json          # Serve a local catalog on port 8080\n", os.Args[0])
		fmt.Printf("  %s --catalog http://localhost:8081    # Search the storefront API's /products\n", os.Args[0])
		fmt.Printf("  %s --config ./config.yaml --port 9000 # Use a config file on port 9000\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Go Product Search v1.0.0\n")
		fmt.Printf("Threshold escalation, spell correction, suggestions and highlighting\n")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *catalogArg != "" {
		cfg.Catalog.Path, cfg.Catalog.URL = "", ""
		if isURL(*catalogArg) {
			cfg.Catalog.URL = *catalogArg
		} else {
			cfg.Catalog.Path = *catalogArg
		}
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	source, err := catalog.NewSource(cfg.Catalog, log)
	if err != nil {
		log.Fatal("Failed to create catalog source", zap.Error(err))
	}

	log.Info("Starting product search server",
		zap.String("env", cfg.Environment),
		zap.Int("port", cfg.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("catalog_url", cfg.Catalog.URL),
		zap.Duration("catalog_cache_ttl", cfg.Catalog.CacheTTL),
	)

	jobManager := jobs.NewManager(cfg.JobWorkers, log)
	jobManager.Start()
	defer jobManager.Stop()

	if cfg.Catalog.Path != "" || cfg.Catalog.URL != "" {
		// Warm the cache so the first search does not pay for the fetch.
		_, err := jobManager.Submit(model.JobTypeCatalogRefresh, map[string]string{"trigger": "startup"},
			func(ctx context.Context, progress jobs.ProgressFunc) error {
				count, err := catalog.Refresh(ctx, source)
				if err != nil {
					return err
				}
				progress(1, 1, "Catalog loaded")
				log.Info("Initial catalog loaded", zap.Int("products", count))
				return nil
			})
		if err != nil {
			log.Warn("Failed to schedule initial catalog load", zap.Error(err))
		}
	}

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Dependencies{
		Engine:    search.NewService(nil, log),
		Suggester: search.NewSuggester(nil),
		Catalog:   source,
		Analytics: analytics.NewService(cfg.Search.AnalyticsCapacity),
		Jobs:      jobManager,
		Config:    cfg,
		Logger:    log,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
