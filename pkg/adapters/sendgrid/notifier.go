// Package sendgrid sends order confirmations by e-mail through the
// SendGrid v3 mail API (or anything speaking the same payload).
package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/hexa/pkg/core"
)

// DefaultEndpoint is the public SendGrid API.
const DefaultEndpoint = "https://api.sendgrid.com"

// Config configures the notifier.
type Config struct {
	Endpoint   string
	APIKey     string
	From       string
	To         string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Notifier implements core.Notifier.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a notifier.
func New(cfg Config) *Notifier {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Notifier{cfg: cfg, client: client, logger: logger}
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type personalization struct {
	To []address `json:"to"`
}

// Mail is the v3 mail/send payload.
type Mail struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

// Compose builds the confirmation mail for order.
func (n *Notifier) Compose(order core.Order) Mail {
	var body strings.Builder
	fmt.Fprintf(&body, "Thank you! Order %s is confirmed.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&body, "  %-30s %10s\n", item.Name, item.Price)
	}
	fmt.Fprintf(&body, "\nTotal: %s\n", order.Total)

	return Mail{
		Personalizations: []personalization{{To: []address{{Email: n.cfg.To}}}},
		From:             address{Email: n.cfg.From},
		Subject:          fmt.Sprintf("Order %s confirmed", order.ID),
		Content:          []content{{Type: "text/plain", Value: body.String()}},
	}
}

// Notify implements core.Notifier.
func (n *Notifier) Notify(ctx context.Context, order core.Order) error {
	payload, err := json.Marshal(n.Compose(order))
	if err != nil {
		return err
	}

	endpoint := strings.TrimRight(n.cfg.Endpoint, "/") + "/v3/mail/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)

	n.logger.Debug("[SendGrid] sending confirmation", "id", order.ID, "to", n.cfg.To)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

var _ core.Notifier = (*Notifier)(nil)
