package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"currency-rate-service/internal/domain/model"
	"currency-rate-service/pkg/logger"
	"currency-rate-service/pkg/utils"
)

var (
	ErrFetchTimeout  = errors.New("rate feed timed out")
	ErrFetchFailed   = errors.New("rate feed request failed")
	ErrMissingSymbol = errors.New("rate feed response is missing a symbol")
	ErrInvalidValue  = errors.New("rate feed returned an invalid value")
)

// FeedClient reads the EUR basis rates from the remote quote feed.
// It performs exactly one request per call and never retries.
type FeedClient struct {
	feedURL    string
	httpClient *http.Client
	log        *logger.Logger
}

type feedResponse struct {
	Amount float64                    `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]json.RawMessage `json:"rates"`
}

func NewFeedClient(feedURL string, timeout time.Duration, log *logger.Logger) *FeedClient {
	return &FeedClient{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (f *FeedClient) FetchBasis(ctx context.Context) (*model.Basis, error) {
	requestURL, err := f.requestURL()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to send request: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned non-OK status: %d", ErrFetchFailed, resp.StatusCode)
	}

	var apiResp feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrFetchFailed, err)
	}

	return f.parseBasis(apiResp)
}

func (f *FeedClient) requestURL() (string, error) {
	u, err := url.Parse(f.feedURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("base", model.BaseCurrency.String())
	q.Set("symbols", model.CHF.String()+","+model.USD.String())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (f *FeedClient) parseBasis(apiResp feedResponse) (*model.Basis, error) {
	if apiResp.Base != "" && apiResp.Base != model.BaseCurrency.String() {
		return nil, fmt.Errorf("%w: unexpected base currency %q", ErrInvalidValue, apiResp.Base)
	}

	if apiResp.Date == "" {
		return nil, fmt.Errorf("%w: date", ErrMissingSymbol)
	}
	if _, err := utils.ParseDate(apiResp.Date); err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidValue, apiResp.Date)
	}

	eurCHF, err := extractRate(apiResp.Rates, model.CHF)
	if err != nil {
		return nil, err
	}
	eurUSD, err := extractRate(apiResp.Rates, model.USD)
	if err != nil {
		return nil, err
	}

	f.log.Debug("Fetched basis rates", "date", apiResp.Date, "eur_chf", eurCHF, "eur_usd", eurUSD)

	return &model.Basis{
		EURCHF: eurCHF,
		EURUSD: eurUSD,
		AsOf:   apiResp.Date,
	}, nil
}

func extractRate(rates map[string]json.RawMessage, currency model.Currency) (decimal.Decimal, error) {
	raw, exists := rates[currency.String()]
	if !exists {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrMissingSymbol, currency)
	}

	// Quoted strings and null are rejected here, only bare JSON numbers parse.
	rate, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s=%s", ErrInvalidValue, currency, raw)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s=%s", ErrInvalidValue, currency, rate)
	}

	return rate, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
