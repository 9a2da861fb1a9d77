package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"currency-rate-service/internal/domain/model"
	"currency-rate-service/pkg/utils"
)

var errNoFallbackStore = errors.New("no fallback store configured")

// loadFallback builds a snapshot from the latest stored CHF->USD and EUR->USD
// fiscal-year rates. EUR->CHF is eur_usd / chf_usd.
func (s *ExchangeService) loadFallback(ctx context.Context) (*model.Snapshot, error) {
	if s.store == nil {
		return nil, errNoFallbackStore
	}

	var chfUSD, eurUSD *model.HistoricalRate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chfUSD, err = s.store.LatestRate(gctx, model.CHF, model.USD)
		return err
	})
	g.Go(func() error {
		var err error
		eurUSD, err = s.store.LatestRate(gctx, model.EUR, model.USD)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load fallback rates: %w", err)
	}

	if !chfUSD.Rate.IsPositive() {
		return nil, fmt.Errorf("load fallback rates: %w", model.ErrZeroOrNegativeBasis)
	}

	rates, err := model.DeriveRateSet(eurUSD.Rate.Div(chfUSD.Rate), eurUSD.Rate)
	if err != nil {
		return nil, fmt.Errorf("derive fallback rates: %w", err)
	}

	// A cross rate is only as current as its older input.
	year := min(chfUSD.FiscalYear, eurUSD.FiscalYear)
	if chfUSD.FiscalYear != eurUSD.FiscalYear {
		s.log.Warn("Fallback rates come from different fiscal years",
			"chf_usd_year", chfUSD.FiscalYear,
			"eur_usd_year", eurUSD.FiscalYear,
			"as_of", year,
		)
	}

	return &model.Snapshot{
		Rates:     rates,
		FetchedAt: time.Time{},
		AsOf:      utils.FiscalYearLabel(year),
		Source:    model.SourceDatabase,
	}, nil
}
