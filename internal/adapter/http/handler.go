package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"currency-rate-service/internal/domain/model"
	"currency-rate-service/internal/domain/ports"
	"currency-rate-service/internal/service"
	"currency-rate-service/pkg/logger"
)

// ratesMaxAge is the client cache lifetime advertised for successful rate responses.
const ratesMaxAge = "max-age=300"

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Handler struct {
	service ports.RateService
	log     *logger.Logger
}

func NewHandler(service ports.RateService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// GetRatesHandler writes the rate envelope: rates, rates_as_of and stale.
func (h *Handler) GetRatesHandler(w http.ResponseWriter, r *http.Request) {
	rates, err := h.service.GetRates(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Cache-Control", ratesMaxAge)
	h.writeJSON(w, http.StatusOK, rates)
}

func (h *Handler) ConvertCurrencyHandler(w http.ResponseWriter, r *http.Request) {
	from := model.Currency(r.URL.Query().Get("from"))
	to := model.Currency(r.URL.Query().Get("to"))
	amountStr := r.URL.Query().Get("amount")

	if from == "" || to == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: from and to")
		return
	}

	amount := decimal.NewFromInt(1)
	if amountStr != "" {
		var err error
		amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			h.sendErrorResponse(w, http.StatusBadRequest, "invalid amount parameter")
			return
		}
	}

	request := model.ConversionRequest{
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       amount,
	}

	result, err := h.service.ConvertCurrency(r.Context(), request)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSON(w, statusCode, Response{
		Success: false,
		Error:   message,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidCurrency):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid currency"
	case errors.Is(err, service.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		errorMessage = "invalid amount"
	case errors.Is(err, service.ErrRatesUnavailable):
		statusCode = http.StatusServiceUnavailable
		errorMessage = "exchange rates unavailable"
	}

	h.log.Error("Service error", "error", err, "status_code", statusCode)
	h.sendErrorResponse(w, statusCode, errorMessage)
}
