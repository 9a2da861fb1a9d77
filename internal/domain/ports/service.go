package ports

import (
	"context"

	"currency-rate-service/internal/domain/model"
)

type RateService interface {
	GetRates(ctx context.Context) (*model.RateResponse, error)
	ConvertCurrency(ctx context.Context, request model.ConversionRequest) (*model.ConversionResult, error)
	RefreshRates(ctx context.Context) error
}
