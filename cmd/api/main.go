package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pixelastronauts/matwise-backend/api/routes"
	"github.com/pixelastronauts/matwise-backend/internal/formulas"
	"github.com/pixelastronauts/matwise-backend/internal/pricelists"
	"github.com/pixelastronauts/matwise-backend/internal/quotes"
	"github.com/pixelastronauts/matwise-backend/pkg/config"
	"github.com/pixelastronauts/matwise-backend/pkg/db"
	"github.com/pixelastronauts/matwise-backend/pkg/logger"
	"github.com/pixelastronauts/matwise-backend/pkg/metrics"
	"github.com/pixelastronauts/matwise-backend/pkg/migrate"
	"github.com/pixelastronauts/matwise-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	pricingMetrics := metrics.NewPricingMetrics(registry)

	formulaRepo := formulas.NewRepository(dbClient.DB())
	formulaService, err := formulas.NewService(formulaRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create formula service", err)
		os.Exit(1)
	}

	priceListService, err := pricelists.NewService(pricelists.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create price list service", err)
		os.Exit(1)
	}

	quoteParams := quotes.ServiceParams{
		Prices:   priceListService,
		Formulas: formulaRepo,
		CacheTTL: cfg.Quotes.CacheTTL,
		Tax: quotes.TaxSettings{
			HomeCountry:        cfg.Tax.HomeCountry,
			DefaultRatePercent: cfg.Tax.DefaultRatePercent,
		},
		Metrics: pricingMetrics,
		Logger:  logg,
	}
	if cfg.Quotes.CacheEnabled {
		quoteParams.Cache = redisClient
	}
	quoteService, err := quotes.NewService(quoteParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			pricingMetrics,
			quoteService,
			formulaService,
			priceListService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
