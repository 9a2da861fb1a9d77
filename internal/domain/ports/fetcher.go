package ports

import (
	"context"

	"currency-rate-service/internal/domain/model"
)

type RateFetcher interface {
	FetchBasis(ctx context.Context) (*model.Basis, error)
}
