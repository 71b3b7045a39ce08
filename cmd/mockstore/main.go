package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/venuelink/marketplace-backend/api/routes"
	"github.com/venuelink/marketplace-backend/internal/listing"
	"github.com/venuelink/marketplace-backend/internal/mockstore"
	"github.com/venuelink/marketplace-backend/pkg/config"
	"github.com/venuelink/marketplace-backend/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "mockstore"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "mockstore",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	db, err := mockstore.OpenDB(cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	vocabulary, err := cfg.Listing.Vocabulary()
	if err != nil {
		logg.Error(context.Background(), "failed to resolve status vocabulary", err)
		os.Exit(1)
	}
	schema := listing.Schema{
		Vocabulary: vocabulary,
		MaxPhotos:  cfg.Listing.MaxPhotoSlots,
		MaxVideos:  cfg.Listing.MaxVideoSlots,
	}

	mediaBase := cfg.Store.BaseURL + "/api/v1/media"
	svc, err := mockstore.NewService(mockstore.NewRepository(db), schema, logg, mediaBase)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"vocabulary": vocabulary.Name(),
	})
	logg.Info(ctx, "starting mock listing store")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, svc, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "mock store stopped unexpectedly", err)
		os.Exit(1)
	}
}
