package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tendant/chi-demo/app"
	"github.com/tendant/chi-demo/middleware"

	siteapp "github.com/tendant/simple-site/internal/app"
	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/api"
	"github.com/tendant/simple-site/pkg/site/config"
	"github.com/tendant/simple-site/pkg/site/engine"
	"github.com/tendant/simple-site/pkg/site/initializer"
	"github.com/tendant/simple-site/pkg/site/portal"
)

func main() {
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to read configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		slog.Error("Failed to build repository", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	blobs, err := cfg.BuildBlobStore()
	if err != nil {
		slog.Error("Failed to build blob store", "error", err)
		os.Exit(1)
	}

	strategy, err := cfg.BuildURLStrategy(blobs)
	if err != nil {
		slog.Error("Failed to build URL strategy", "error", err)
		os.Exit(1)
	}

	renderer, err := views.NewRenderer()
	if err != nil {
		slog.Error("Failed to parse views", "error", err)
		os.Exit(1)
	}

	contents := site.NewContentService(repo)
	portalService := portal.New(contents, strategy, cfg.PortalOptions()...)

	registry := engine.NewRegistry()
	siteapp.Register(registry, contents, portalService, renderer, siteapp.Options{
		LayoutOneColRender: cfg.LayoutOneColRender,
	})

	publisher, err := cfg.BuildPublisher()
	if err != nil {
		slog.Error("Failed to build event publisher", "error", err)
		os.Exit(1)
	}

	seeder := initializer.New(repo, blobs, initializer.WithPublisher(publisher))
	if cfg.InitDemoContent {
		if _, err := seeder.Initialize(ctx); err != nil {
			slog.Error("Failed to initialize demo content", "error", err)
			os.Exit(1)
		}
	}

	handler := api.NewSiteHandler(contents, engine.New(registry, contents), blobs, views.Static(), renderer,
		api.WithInitializer(seeder),
		api.WithHomePath(initializer.DemoSitePath),
		api.WithRateLimit(cfg.RateLimitPerMinute),
		api.WithTimeout(cfg.RequestTimeout),
	)

	apiKeyMiddleware, err := middleware.ApiKeyMiddleware(middleware.ApiKeyConfig{
		APIKeys: map[string]string{
			"key1": cfg.APIKeySHA256,
		},
	})
	if err != nil {
		slog.Error("Failed initialize API Key middleware", "error", err)
		os.Exit(1)
	}

	r := api.NewRouter(handler, apiKeyMiddleware)
	app.RoutesHealthz(r)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Site server starting", "port", cfg.Port, "environment", cfg.Environment,
			"database", cfg.DatabaseType, "storage", cfg.StorageBackend, "url_strategy", cfg.URLStrategy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
