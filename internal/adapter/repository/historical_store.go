package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"currency-rate-service/internal/domain/model"
)

var ErrRateNotFound = errors.New("historical rate not found")

// HistoricalRateStore reads and writes fiscal-year rates in SQL storage.
type HistoricalRateStore struct {
	db *sql.DB
}

func NewHistoricalRateStore(db *sql.DB) *HistoricalRateStore {
	return &HistoricalRateStore{db: db}
}

// LatestRate returns the stored from->to rate with the highest fiscal year.
func (r *HistoricalRateStore) LatestRate(ctx context.Context, from, to model.Currency) (*model.HistoricalRate, error) {
	const query = `SELECT fiscal_year, rate
		FROM historical_exchange_rates
		WHERE from_currency = ? AND to_currency = ?
		ORDER BY fiscal_year DESC
		LIMIT 1`

	var (
		year    int
		rateStr string
	)
	err := r.db.QueryRowContext(ctx, query, from.String(), to.String()).Scan(&year, &rateStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s-%s", ErrRateNotFound, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("latest rate %s-%s: %w", from, to, err)
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored rate %s-%s %q: %w", from, to, rateStr, err)
	}

	return &model.HistoricalRate{
		From:       from,
		To:         to,
		FiscalYear: year,
		Rate:       rate,
	}, nil
}

// SaveRate inserts a fiscal-year rate, replacing an existing one for the same year.
func (r *HistoricalRateStore) SaveRate(ctx context.Context, rate model.HistoricalRate) error {
	const query = `INSERT INTO historical_exchange_rates (from_currency, to_currency, fiscal_year, rate)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (from_currency, to_currency, fiscal_year) DO UPDATE SET rate = excluded.rate`

	_, err := r.db.ExecContext(ctx, query, rate.From.String(), rate.To.String(), rate.FiscalYear, rate.Rate.String())
	if err != nil {
		return fmt.Errorf("save rate %s-%s %d: %w", rate.From, rate.To, rate.FiscalYear, err)
	}
	return nil
}
