package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/infra/httpx"
)

const WebhookSinkName = "webhook"

var ErrMissingWebhookURL = errors.New("webhook url is required")

type WebhookConfig struct {
	URL         string
	Timeout     time.Duration
	MaxFailures uint32
}

// WebhookPayload is what alert receivers get. Text gives chat integrations a
// readable line without parsing the event.
type WebhookPayload struct {
	Text  string         `json:"text"`
	Event security.Event `json:"event"`
}

// WebhookSink posts alert events as JSON. Consecutive failures open a
// circuit breaker so a dead receiver costs nothing until it recovers.
type WebhookSink struct {
	cfg     WebhookConfig
	client  httpx.Client
	breaker httpx.CircuitBreaker
}

func NewWebhookSink(cfg WebhookConfig, client httpx.Client) (*WebhookSink, error) {
	if cfg.URL == "" {
		return nil, ErrMissingWebhookURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if client == nil {
		client = httpx.NewFastHTTPClient(
			httpx.WithTimeout(cfg.Timeout),
			httpx.WithUserAgent("gatekeeper-alerts"),
		)
	}
	return &WebhookSink{
		cfg:     cfg,
		client:  client,
		breaker: httpx.NewCircuitBreaker(WebhookSinkName, 30*time.Second, cfg.MaxFailures),
	}, nil
}

func (s *WebhookSink) Name() string {
	return WebhookSinkName
}

func (s *WebhookSink) Handle(ctx context.Context, event security.Event) error {
	payload, err := json.Marshal(WebhookPayload{
		Text: fmt.Sprintf("[%s] %s from %s on %s %s",
			event.Severity, event.Type, event.Source.IP, event.Source.Method, event.Source.Path),
		Event: event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	return s.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to build webhook request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("webhook request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
		}
		return nil
	})
}
