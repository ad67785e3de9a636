// Package converter turns a ruble amount into another currency
package converter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rubconv/internal/models"
	"rubconv/internal/rates"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// displayPlaces is how many decimals a converted amount shows
const displayPlaces = 2

var (
	// ErrInvalidQuantity is returned for a zero or negative ruble amount
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrMissingCurrency is returned when no currency was chosen
	ErrMissingCurrency = errors.New("currency is required")
)

// RateSource returns the latest ruble rate for a currency
type RateSource interface {
	LatestRate(ctx context.Context, currency string) (rates.Rate, error)
}

// Service converts rubles using the upstream rate
type Service struct {
	rates  RateSource
	logger *zap.Logger
}

// NewService creates a new conversion service
func NewService(source RateSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{rates: source, logger: logger}
}

// Convert divides the ruble quantity by the currency's exchange_to_rub rate
func (s *Service) Convert(ctx context.Context, req models.ConversionRequest) (models.ConversionResult, error) {
	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		return models.ConversionResult{}, ErrMissingCurrency
	}
	if !(req.Quantity > 0) {
		return models.ConversionResult{}, fmt.Errorf("%w, got %v", ErrInvalidQuantity, req.Quantity)
	}

	rate, err := s.rates.LatestRate(ctx, currency)
	if err != nil {
		return models.ConversionResult{}, err
	}

	converted := Divide(req.Quantity, rate.ExchangeToRUB)
	result := models.ConversionResult{
		Currency:  currency,
		Quantity:  req.Quantity,
		Rate:      rate.ExchangeToRUB,
		Converted: converted.InexactFloat64(),
		Display:   converted.StringFixed(displayPlaces),
	}

	s.logger.Info("Currency conversion completed",
		zap.String("currency", currency),
		zap.Float64("quantity", req.Quantity),
		zap.Float64("exchange_to_rub", rate.ExchangeToRUB),
		zap.String("converted", result.Display),
	)
	return result, nil
}

// Divide returns quantity/rate rounded half away from zero to two places.
// rate must be positive.
func Divide(quantity, rate float64) decimal.Decimal {
	q := decimal.NewFromFloat(quantity)
	r := decimal.NewFromFloat(rate)
	return q.DivRound(r, displayPlaces)
}

// Describe classifies err into the code and message shown to the user
func Describe(err error, currency string) models.ConversionFailure {
	var statusErr *rates.StatusError
	switch {
	case errors.As(err, &statusErr):
		return models.ConversionFailure{ErrorCode: statusErr.StatusCode, ErrorMessage: statusErr.Message}
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrMissingCurrency):
		return models.ConversionFailure{ErrorCode: http.StatusBadRequest, ErrorMessage: err.Error()}
	case errors.Is(err, rates.ErrInvalidRate):
		return models.ConversionFailure{
			ErrorCode:    http.StatusUnprocessableEntity,
			ErrorMessage: fmt.Sprintf("no usable exchange rate is available for %s", currency),
		}
	case errors.Is(err, rates.ErrTimeout):
		return models.ConversionFailure{
			ErrorCode:    http.StatusGatewayTimeout,
			ErrorMessage: "the exchange-rate service did not respond in time",
		}
	case errors.Is(err, rates.ErrMalformedResponse):
		return models.ConversionFailure{
			ErrorCode:    http.StatusBadGateway,
			ErrorMessage: "the exchange-rate service returned an unreadable response",
		}
	default:
		return models.ConversionFailure{
			ErrorCode:    http.StatusBadGateway,
			ErrorMessage: "the exchange-rate service is unavailable",
		}
	}
}
