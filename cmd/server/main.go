package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/beerstyle-api/internal/catalog"
	"github.com/Lixing-Zhang/beerstyle-api/internal/config"
	"github.com/Lixing-Zhang/beerstyle-api/internal/middleware"
	"github.com/Lixing-Zhang/beerstyle-api/internal/repository"
	"github.com/Lixing-Zhang/beerstyle-api/internal/server"
	"github.com/Lixing-Zhang/beerstyle-api/internal/service"
	"github.com/Lixing-Zhang/beerstyle-api/pkg/logger"
)

func main() {
	// .env is optional; real environment variables take precedence
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting beer style catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Load the catalog once; it is never written back
	log.Info("loading catalog...", "source", cfg.Catalog.Source)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	products, err := catalog.Load(loadCtx, cfg.Catalog.Source)
	cancelLoad()
	if err != nil {
		log.Error("failed to load catalog", "source", cfg.Catalog.Source, "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded successfully", "products", len(products))

	productRepo := repository.NewInMemoryProductRepository(products)
	productService := service.NewProductService(productRepo)

	var faults middleware.FaultInjector
	if cfg.Fault.Enabled {
		faults = middleware.NewRandomFaultInjector(cfg.Fault.Rate)
		log.Info("fault injection enabled", "rate", cfg.Fault.Rate)
	}

	router := server.NewRouter(server.Deps{
		Products:       productService,
		Logger:         log,
		Faults:         faults,
		DocDir:         cfg.Catalog.DocDir,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("listening on port", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
