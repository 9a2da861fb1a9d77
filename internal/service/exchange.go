package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"currency-rate-service/internal/adapter/repository"
	"currency-rate-service/internal/domain/model"
	"currency-rate-service/internal/domain/ports"
	"currency-rate-service/internal/metrics"
	"currency-rate-service/pkg/logger"
)

var (
	ErrInvalidCurrency    = errors.New("invalid currency")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrExternalAPIFailure = errors.New("external API failure")
	ErrRatesUnavailable   = errors.New("exchange rates unavailable")
)

// DefaultTTL is the freshness window used when none is configured.
const DefaultTTL = 24 * time.Hour

// ExchangeService serves the current rate set from the shared snapshot slot,
// refreshing it from the remote feed and falling back to stored rates.
type ExchangeService struct {
	fetcher ports.RateFetcher
	store   ports.HistoricalRateRepository
	cache   ports.SnapshotCache
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*ExchangeService)

// WithClock replaces time.Now for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(s *ExchangeService) { s.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *ExchangeService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewExchangeService(
	fetcher ports.RateFetcher,
	store ports.HistoricalRateRepository,
	cache ports.SnapshotCache,
	log *logger.Logger,
	metrics *metrics.Metrics,
	opts ...Option,
) *ExchangeService {
	s := &ExchangeService{
		fetcher: fetcher,
		store:   store,
		cache:   cache,
		ttl:     DefaultTTL,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetRates returns the current rate set. Each step runs at most once per call:
// fresh cache, live fetch, stale cache, database fallback.
// ErrRatesUnavailable is the only error it returns.
func (s *ExchangeService) GetRates(ctx context.Context) (*model.RateResponse, error) {
	s.metrics.RateRequestsTotal.Inc()

	if snapshot, found := s.cache.Get(ctx); found && snapshot.IsFresh(s.now(), s.ttl) {
		s.log.Debug("Exchange rates found in cache", "as_of", snapshot.AsOf)
		s.metrics.RateResponsesTotal.WithLabelValues(metrics.SourceCache).Inc()
		return newResponse(snapshot, false), nil
	}

	// The refresh outlives a single caller: waiters on the lock depend on its result.
	refreshCtx := context.WithoutCancel(ctx)

	var response *model.RateResponse
	s.cache.Update(ctx, func(current *model.Snapshot) *model.Snapshot {
		if current.IsFresh(s.now(), s.ttl) {
			s.log.Debug("Exchange rates refreshed by another request", "as_of", current.AsOf)
			s.metrics.RateResponsesTotal.WithLabelValues(metrics.SourceCache).Inc()
			response = newResponse(current, false)
			return nil
		}

		s.log.Info("Fetching exchange rates from feed")
		snapshot, err := s.fetchLive(refreshCtx)
		if err == nil {
			s.metrics.RateResponsesTotal.WithLabelValues(metrics.SourceLive).Inc()
			response = newResponse(snapshot, false)
			return snapshot
		}
		s.log.Error("Failed to fetch exchange rates", "error", err)

		if current != nil {
			s.log.Warn("Serving stale exchange rates", "as_of", current.AsOf, "source", current.Source)
			s.metrics.RateResponsesTotal.WithLabelValues(metrics.SourceStale).Inc()
			response = newResponse(current, true)
			return nil
		}

		snapshot, err = s.loadFallback(refreshCtx)
		if err != nil {
			s.log.Error("Database fallback failed", "error", err)
			return nil
		}
		s.log.Warn("Serving exchange rates from database", "as_of", snapshot.AsOf)
		s.metrics.RateResponsesTotal.WithLabelValues(metrics.SourceDatabase).Inc()
		response = newResponse(snapshot, true)
		return snapshot
	})

	if response == nil {
		s.metrics.RateResponsesTotal.WithLabelValues(metrics.SourceUnavailable).Inc()
		return nil, ErrRatesUnavailable
	}
	return response, nil
}

// RefreshRates fetches from the feed regardless of freshness. On failure the
// current snapshot is kept.
func (s *ExchangeService) RefreshRates(ctx context.Context) error {
	s.log.Info("Refreshing exchange rates")

	var err error
	s.cache.Update(ctx, func(*model.Snapshot) *model.Snapshot {
		var snapshot *model.Snapshot
		snapshot, err = s.fetchLive(ctx)
		return snapshot
	})
	if err != nil {
		s.log.Error("Failed to refresh exchange rates", "error", err)
		return fmt.Errorf("%w: %v", ErrExternalAPIFailure, err)
	}

	return nil
}

func (s *ExchangeService) ConvertCurrency(ctx context.Context, request model.ConversionRequest) (*model.ConversionResult, error) {
	s.metrics.ConversionRequestsTotal.Inc()

	if !request.FromCurrency.IsSupported() || !request.ToCurrency.IsSupported() {
		return nil, ErrInvalidCurrency
	}

	if !request.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	rates, err := s.GetRates(ctx)
	if err != nil {
		return nil, err
	}

	rate := decimal.NewFromInt(1)
	if request.FromCurrency != request.ToCurrency {
		var found bool
		rate, found = rates.Rates.Rate(request.FromCurrency, request.ToCurrency)
		if !found {
			return nil, ErrRatesUnavailable
		}
	}

	return &model.ConversionResult{
		FromCurrency: request.FromCurrency,
		ToCurrency:   request.ToCurrency,
		FromAmount:   request.Amount,
		ToAmount:     request.Amount.Mul(rate),
		Rate:         rate,
		AsOf:         rates.AsOf,
		Stale:        rates.Stale,
	}, nil
}

func (s *ExchangeService) fetchLive(ctx context.Context) (*model.Snapshot, error) {
	start := time.Now()
	basis, err := s.fetcher.FetchBasis(ctx)
	s.metrics.RateFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RateFetchesTotal.WithLabelValues(fetchOutcome(err)).Inc()
		return nil, err
	}

	rates, err := model.DeriveRateSet(basis.EURCHF, basis.EURUSD)
	if err != nil {
		s.metrics.RateFetchesTotal.WithLabelValues(metrics.OutcomeDeriveError).Inc()
		return nil, err
	}
	s.metrics.RateFetchesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()

	return &model.Snapshot{
		Rates:     rates,
		FetchedAt: s.now(),
		AsOf:      basis.AsOf,
		Source:    model.SourceLive,
	}, nil
}

func fetchOutcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrFetchTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, repository.ErrMissingSymbol):
		return metrics.OutcomeMissingSymbol
	case errors.Is(err, repository.ErrInvalidValue):
		return metrics.OutcomeInvalidValue
	default:
		return metrics.OutcomeFailed
	}
}

func newResponse(snapshot *model.Snapshot, stale bool) *model.RateResponse {
	return &model.RateResponse{
		Rates: snapshot.Rates.Clone(),
		AsOf:  snapshot.AsOf,
		Stale: stale,
	}
}
