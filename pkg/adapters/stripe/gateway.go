// Package stripe is a PaymentGateway speaking the charge subset of the
// Stripe HTTP API against a configurable endpoint.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/aretw0/hexa/pkg/core"
)

// DefaultEndpoint is the public Stripe API.
const DefaultEndpoint = "https://api.stripe.com"

// ErrCardDeclined is returned when the API answers 402.
var ErrCardDeclined = errors.New("card declined")

// Config configures the gateway.
type Config struct {
	Endpoint string
	APIKey   string
	Currency string // ISO code, "usd" by default
	// RatePerSecond bounds outgoing requests. Zero means 25/s.
	RatePerSecond float64
	HTTPClient    *http.Client
	Logger        *slog.Logger
}

// Gateway implements core.PaymentGateway over HTTP.
type Gateway struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a gateway.
func New(cfg Config) *Gateway {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 25
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gateway{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:  logger,
	}
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Charge implements core.PaymentGateway. Zero amounts are not sent.
func (g *Gateway) Charge(ctx context.Context, amount core.Money) error {
	if amount == 0 {
		return nil
	}
	if amount < 0 {
		return fmt.Errorf("stripe: cannot charge negative amount %s", amount)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("stripe: rate limit: %w", err)
	}

	form := url.Values{
		"amount":   {strconv.FormatInt(int64(amount), 10)},
		"currency": {g.cfg.Currency},
	}
	endpoint := strings.TrimRight(g.cfg.Endpoint, "/") + "/v1/charges"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("stripe: build request: %w", err)
	}
	key := uuid.NewString()
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Idempotency-Key", key)

	g.logger.Debug("[Stripe] charging", "amount", amount.String(), "idempotency_key", key)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("stripe: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var apiErr apiError
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}

	if resp.StatusCode == http.StatusPaymentRequired {
		return fmt.Errorf("stripe: %w: %s", ErrCardDeclined, msg)
	}
	return fmt.Errorf("stripe: unexpected status %d: %s", resp.StatusCode, msg)
}

var _ core.PaymentGateway = (*Gateway)(nil)
