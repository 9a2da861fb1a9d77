package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"currency-rate-service/internal/adapter/cache"
	httpRouter "currency-rate-service/internal/adapter/http"
	"currency-rate-service/internal/adapter/repository"
	"currency-rate-service/internal/config"
	"currency-rate-service/internal/metrics"
	"currency-rate-service/internal/platform/sqlite"
	"currency-rate-service/internal/service"
	"currency-rate-service/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Log.Level)
	log.Info("Starting currency rate service")

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	appMetrics := metrics.NewMetrics(prometheus.DefaultRegisterer)
	rateCache := cache.NewSnapshotSlot(log)
	historicalRates := repository.NewHistoricalRateStore(db.DB)
	feed := repository.NewFeedClient(cfg.RateFeed.URL, cfg.RateFeed.Timeout, log)

	exchangeService := service.NewExchangeService(
		feed,
		historicalRates,
		rateCache,
		log,
		appMetrics,
		service.WithTTL(cfg.Cache.TTL()),
	)
	handler := httpRouter.NewHandler(exchangeService, log)

	router := httpRouter.NewRouter(handler, log, appMetrics, prometheus.DefaultGatherer)
	routes := router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancelRefresh := context.WithCancel(context.Background())
	go refreshRates(ctx, exchangeService, cfg.RateFeed.RefreshInterval, log)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}

// refreshRates warms the cache at startup and, when interval is positive,
// keeps refreshing it in the background.
func refreshRates(ctx context.Context, service *service.ExchangeService, interval time.Duration, log *logger.Logger) {
	if err := service.RefreshRates(ctx); err != nil {
		log.Warn("Failed to warm rate cache at startup", "error", err)
	}

	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := service.RefreshRates(ctx); err != nil {
				log.Error("Failed to refresh rates", "error", err)
			}
		case <-ctx.Done():
			log.Info("Stopping rate refresh goroutine")
			return
		}
	}
}
