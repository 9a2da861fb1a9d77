package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currency-rate-service/internal/domain/model"
	"currency-rate-service/internal/platform/sqlite"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestHistoricalRateStore_LatestRate(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoricalRateStore(db.DB)
	ctx := context.Background()

	for _, r := range []model.HistoricalRate{
		{From: model.CHF, To: model.USD, FiscalYear: 2022, Rate: decimal.RequireFromString("1.05")},
		{From: model.CHF, To: model.USD, FiscalYear: 2024, Rate: decimal.RequireFromString("1.10")},
		{From: model.CHF, To: model.USD, FiscalYear: 2023, Rate: decimal.RequireFromString("1.08")},
		{From: model.EUR, To: model.USD, FiscalYear: 2024, Rate: decimal.RequireFromString("1.08")},
	} {
		require.NoError(t, store.SaveRate(ctx, r))
	}

	got, err := store.LatestRate(ctx, model.CHF, model.USD)
	require.NoError(t, err)
	assert.Equal(t, 2024, got.FiscalYear)
	assert.True(t, decimal.RequireFromString("1.10").Equal(got.Rate))
	assert.Equal(t, model.CHF, got.From)
	assert.Equal(t, model.USD, got.To)
}

func TestHistoricalRateStore_SaveRateReplacesSameYear(t *testing.T) {
	db := setupTestDB(t)
	store := NewHistoricalRateStore(db.DB)
	ctx := context.Background()

	rate := model.HistoricalRate{From: model.EUR, To: model.USD, FiscalYear: 2024, Rate: decimal.RequireFromString("1.08")}
	require.NoError(t, store.SaveRate(ctx, rate))

	rate.Rate = decimal.RequireFromString("1.09")
	require.NoError(t, store.SaveRate(ctx, rate))

	got, err := store.LatestRate(ctx, model.EUR, model.USD)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.09").Equal(got.Rate))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM historical_exchange_rates`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestHistoricalRateStore_NotFound(t *testing.T) {
	store := NewHistoricalRateStore(setupTestDB(t).DB)

	got, err := store.LatestRate(context.Background(), model.CHF, model.USD)
	assert.ErrorIs(t, err, ErrRateNotFound)
	assert.Nil(t, got)
}

func TestHistoricalRateStore_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT fiscal_year, rate").
		WithArgs("CHF", "USD").
		WillReturnError(errors.New("disk I/O error"))

	store := NewHistoricalRateStore(db)
	_, err = store.LatestRate(context.Background(), model.CHF, model.USD)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoricalRateStore_CorruptRate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT fiscal_year, rate").
		WithArgs("EUR", "USD").
		WillReturnRows(sqlmock.NewRows([]string{"fiscal_year", "rate"}).AddRow(2024, "n/a"))

	store := NewHistoricalRateStore(db)
	_, err = store.LatestRate(context.Background(), model.EUR, model.USD)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
