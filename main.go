package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pagebin/pagebin/config"
	"github.com/pagebin/pagebin/handlers"
	"github.com/pagebin/pagebin/internal/assets"
	"github.com/pagebin/pagebin/internal/expiry"
	"github.com/pagebin/pagebin/internal/mirror"
	"github.com/pagebin/pagebin/internal/services"
	"github.com/pagebin/pagebin/storage"
	"github.com/pagebin/pagebin/utils"
)

// Version/build info (set via -ldflags at build time)
var (
	Version    = "dev"
	BuildTime  = "unknown"
	CommitHash = "none"
)

func main() {
	log.Printf("PAGEBIN Version: %s", Version)
	log.Printf("Build Time:    %s", BuildTime)
	log.Printf("Commit Hash:   %s", CommitHash)

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.Version = Version
	cfg.BuildTime = BuildTime
	cfg.CommitHash = CommitHash

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if utils.IsDebugEnabled() {
		log.Printf("[DEBUG] Loaded config: %+v", cfg)
	}

	// Upload dir must exist before the resolver, static route or upload
	// handler touch it.
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	store, err := storage.NewStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	resolver := assets.NewResolver("", cfg.UploadDir)
	engine := expiry.NewEngine(store, resolver)
	pageService := services.NewPageService(store, engine, cfg)

	// The sweep runs for the whole process lifetime, independent of request
	// traffic. Started once here, stopped via the shutdown channel.
	sweepShutdown := make(chan struct{})
	go engine.SweepLoop(cfg.SweepInterval, sweepShutdown)
	log.Printf("Expiry sweep running every %v", cfg.SweepInterval)

	router := setupRouter(pageService, cfg)

	runHTTPServer(router, cfg, store, sweepShutdown)
}

// setupRouter creates and configures the Gin router
func setupRouter(pageService *services.PageService, cfg *config.Config) *gin.Engine {
	pageHandler := handlers.NewPageHandler(pageService, cfg)
	fetcher := mirror.NewFetcher(cfg.UploadDir, cfg.MaxUploadSize)
	uploadHandler := handlers.NewUploadHandler(cfg, fetcher)
	systemHandler := handlers.NewSystemHandler()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Page API
	router.POST("/api/pages", pageHandler.Create)
	router.GET("/api/pages/:slug", pageHandler.Get)

	// Rendered pages
	router.GET("/p/:slug", pageHandler.View)

	// Asset ingestion and serving
	router.POST("/api/upload", uploadHandler.Upload)
	router.GET("/api/proxy-image", uploadHandler.Mirror)
	router.Static("/uploads", cfg.UploadDir)

	// System routes
	router.GET("/health", systemHandler.Health)
	if cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	})

	return router
}

// runHTTPServer starts the HTTP server and blocks until shutdown
func runHTTPServer(router *gin.Engine, cfg *config.Config, store storage.PageStore, sweepShutdown chan struct{}) {
	// Ensure cleanup on exit
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting pagebin server on port %d", cfg.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	close(sweepShutdown)

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server shutdown complete")
	}
}
