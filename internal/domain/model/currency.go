package model

type Currency string

const (
	EUR Currency = "EUR"
	CHF Currency = "CHF"
	USD Currency = "USD"
)

// BaseCurrency is the currency the remote feed quotes against.
const BaseCurrency = EUR

var SupportedCurrencies = []Currency{EUR, CHF, USD}

func (c Currency) IsSupported() bool {
	for _, supportedCurrency := range SupportedCurrencies {
		if c == supportedCurrency {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}
