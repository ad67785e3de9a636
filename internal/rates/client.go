// Package rates talks to the upstream exchange-rate service
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rubconv/internal/config"
	"rubconv/internal/models"

	"go.uber.org/zap"
)

const (
	// maxBodySize caps how much of an upstream body is read
	maxBodySize = 1 << 20
	// maxErrorBodySize caps how much of an error body is surfaced
	maxErrorBodySize = 4 << 10
)

// Doer is the HTTP client used for upstream calls
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Rate is the latest ruble rate for one currency
type Rate struct {
	Currency      string  `json:"name"`
	ExchangeToRUB float64 `json:"exchange_to_rub"`
	UpdateTime    string  `json:"update_time,omitempty"`
}

// latestResponse mirrors the rate endpoint body; a pointer tells missing from zero
type latestResponse struct {
	Name          string   `json:"name"`
	ExchangeToRUB *float64 `json:"exchange_to_rub"`
	UpdateTime    string   `json:"update_time"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client fetches the currency list and latest rates
type Client struct {
	cfg    config.UpstreamConfig
	doer   Doer
	logger *zap.Logger
}

// NewClient creates a new upstream client. A nil doer gets an http.Client with the configured timeout.
func NewClient(cfg config.UpstreamConfig, doer Doer, logger *zap.Logger) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		doer:   doer,
		logger: logger,
	}
}

// ListCurrencies fetches every currency record the upstream knows about
func (c *Client) ListCurrencies(ctx context.Context) ([]models.CurrencyRecord, error) {
	var records []models.CurrencyRecord
	if err := c.getJSON(ctx, c.cfg.CurrencyListURL, &records); err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	c.logger.Debug("Currency list fetched", zap.Int("count", len(records)))
	return records, nil
}

// LatestRate fetches the latest ruble rate for currency
func (c *Client) LatestRate(ctx context.Context, currency string) (Rate, error) {
	reqURL, err := withQuery(c.cfg.RateURL, "currency", currency)
	if err != nil {
		return Rate{}, err
	}

	var body latestResponse
	if err := c.getJSON(ctx, reqURL, &body); err != nil {
		return Rate{}, fmt.Errorf("failed to fetch rate for %s: %w", currency, err)
	}

	if body.ExchangeToRUB == nil {
		return Rate{}, fmt.Errorf("%w: exchange_to_rub missing for %s", ErrInvalidRate, currency)
	}
	rate := *body.ExchangeToRUB
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		c.logger.Warn("Unusable exchange rate",
			zap.String("currency", currency),
			zap.Float64("exchange_to_rub", rate),
		)
		return Rate{}, fmt.Errorf("%w: exchange_to_rub=%v for %s", ErrInvalidRate, rate, currency)
	}

	name := body.Name
	if name == "" {
		name = currency
	}
	return Rate{Currency: name, ExchangeToRUB: rate, UpdateTime: body.UpdateTime}, nil
}

// getJSON performs a bounded GET and decodes a 2xx body into out
func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return c.classifyTransportError(ctx, reqURL, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Upstream responded",
		zap.String("url", reqURL),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := readStatusError(resp)
		c.logger.Warn("Upstream returned error status",
			zap.String("url", reqURL),
			zap.Int("status_code", statusErr.StatusCode),
			zap.String("message", statusErr.Message),
		)
		return statusErr
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		if isTimeout(ctx, err) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.logger.Error("Invalid JSON from upstream",
			zap.String("url", reqURL),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) classifyTransportError(ctx context.Context, reqURL string, err error) error {
	if isTimeout(ctx, err) {
		c.logger.Error("Upstream request timeout",
			zap.String("url", reqURL),
			zap.Duration("timeout", c.cfg.Timeout),
		)
		return fmt.Errorf("%w after %v", ErrTimeout, c.cfg.Timeout)
	}

	c.logger.Error("Upstream request failed",
		zap.String("url", reqURL),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// readStatusError extracts the upstream message from a non-2xx response
func readStatusError(resp *http.Response) *StatusError {
	statusErr := &StatusError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		statusErr.Message = body.Error
		return statusErr
	}

	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		statusErr.Message = text
		return statusErr
	}

	statusErr.Message = http.StatusText(resp.StatusCode)
	return statusErr
}

// withQuery sets key=value on base, keeping any query the base already carries
func withQuery(base, key, value string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid upstream URL %q: %w", base, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
