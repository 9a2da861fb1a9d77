// Command seedrates writes fiscal-year exchange rates into the fallback database.
//
//	seedrates -db rates.db -year 2024 CHF/USD=1.10 EUR/USD=1.08
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"currency-rate-service/internal/adapter/repository"
	"currency-rate-service/internal/domain/model"
	"currency-rate-service/internal/domain/ports"
	"currency-rate-service/internal/platform/sqlite"
	"currency-rate-service/pkg/logger"
)

func main() {
	dbPath := flag.String("db", "rates.db", "path to the SQLite database")
	year := flag.Int("year", 0, "fiscal year of the rates")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.NewLogger(*level)

	rates, err := parseRates(*year, flag.Args())
	if err != nil {
		log.Error("Invalid arguments", "error", err)
		flag.Usage()
		os.Exit(2)
	}

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		log.Error("Failed to open database", "error", err, "path", *dbPath)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := seed(context.Background(), repository.NewHistoricalRateStore(db.DB), rates); err != nil {
		log.Error("Failed to seed rates", "error", err)
		os.Exit(1)
	}

	log.Info("Seeded historical rates", "count", len(rates), "year", *year)
}

func seed(ctx context.Context, store ports.HistoricalRateRepository, rates []model.HistoricalRate) error {
	for _, r := range rates {
		if err := store.SaveRate(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// parseRates reads arguments of the form FROM/TO=RATE.
func parseRates(year int, args []string) ([]model.HistoricalRate, error) {
	if year <= 0 {
		return nil, errors.New("-year must be a positive fiscal year")
	}
	if len(args) == 0 {
		return nil, errors.New("at least one FROM/TO=RATE argument is required")
	}

	rates := make([]model.HistoricalRate, 0, len(args))
	for _, arg := range args {
		pair, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%q: expected FROM/TO=RATE", arg)
		}
		fromStr, toStr, ok := strings.Cut(pair, "/")
		if !ok {
			return nil, fmt.Errorf("%q: expected FROM/TO=RATE", arg)
		}

		from := model.Currency(strings.ToUpper(fromStr))
		to := model.Currency(strings.ToUpper(toStr))
		if !from.IsSupported() || !to.IsSupported() || from == to {
			return nil, fmt.Errorf("%q: unsupported currency pair", arg)
		}

		rate, err := decimal.NewFromString(value)
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("%q: rate must be a positive number", arg)
		}

		rates = append(rates, model.HistoricalRate{From: from, To: to, FiscalYear: year, Rate: rate})
	}

	return rates, nil
}
