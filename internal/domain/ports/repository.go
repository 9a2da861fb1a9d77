package ports

import (
	"context"

	"currency-rate-service/internal/domain/model"
)

// HistoricalRateRepository stores fiscal-year rates used as the last-resort source.
type HistoricalRateRepository interface {
	LatestRate(ctx context.Context, from, to model.Currency) (*model.HistoricalRate, error)
	SaveRate(ctx context.Context, rate model.HistoricalRate) error
}
