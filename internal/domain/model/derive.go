package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrZeroOrNegativeBasis = errors.New("basis rate must be strictly positive")

// DeriveRateSet expands the EUR->CHF and EUR->USD basis into all six directed pairs.
// The two basis rates are kept verbatim, the rest are reciprocals and cross ratios.
func DeriveRateSet(eurCHF, eurUSD decimal.Decimal) (RateSet, error) {
	if !eurCHF.IsPositive() || !eurUSD.IsPositive() {
		return nil, ErrZeroOrNegativeBasis
	}

	one := decimal.NewFromInt(1)

	return RateSet{
		{From: EUR, To: CHF, Rate: eurCHF},
		{From: EUR, To: USD, Rate: eurUSD},
		{From: CHF, To: EUR, Rate: one.Div(eurCHF)},
		{From: USD, To: EUR, Rate: one.Div(eurUSD)},
		{From: CHF, To: USD, Rate: eurUSD.Div(eurCHF)},
		{From: USD, To: CHF, Rate: eurCHF.Div(eurUSD)},
	}, nil
}
