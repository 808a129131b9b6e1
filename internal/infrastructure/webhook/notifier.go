// Package webhook delivers schedule events to configured HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jalvemo/planera/internal/infrastructure/config"
	"github.com/jalvemo/planera/pkg/domain/events"
)

// Notifier sends outgoing webhook notifications for schedule events.
type Notifier struct {
	endpoints  []config.WebhookEndpoint
	client     *http.Client
	deadLetter *DeadLetterStore
}

// NewNotifier creates a notifier with the given endpoints and dead letter store.
func NewNotifier(endpoints []config.WebhookEndpoint, deadLetter *DeadLetterStore) *Notifier {
	return &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		deadLetter: deadLetter,
	}
}

// Register subscribes the notifier to every event on the dispatcher.
func (n *Notifier) Register(dispatcher *events.Dispatcher) {
	dispatcher.RegisterWildcard("webhook-notifier", func(ctx context.Context, e events.DomainEvent) error {
		n.Notify(ctx, e)
		return nil
	})
}

// Payload is the JSON body sent to webhook endpoints.
type Payload struct {
	EventType string    `json:"event_type"`
	JobID     string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Notify sends an event to all matching webhook endpoints. Delivery is
// asynchronous; a committing draft never waits on a webhook target.
func (n *Notifier) Notify(ctx context.Context, event events.DomainEvent) {
	payload := Payload{
		EventType: event.EventType(),
		JobID:     event.JobID(),
		Timestamp: event.OccurredAt(),
		Data:      event,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	for _, ep := range n.endpoints {
		if !ep.Enabled {
			continue
		}
		if !matchesFilter(ep, event.EventType()) {
			continue
		}
		go n.deliver(ctx, ep, event.EventType(), body)
	}
}

func matchesFilter(ep config.WebhookEndpoint, eventType string) bool {
	if len(ep.EventFilters) == 0 {
		return true
	}
	for _, f := range ep.EventFilters {
		if f == eventType {
			return true
		}
	}
	return false
}

func (n *Notifier) deliver(ctx context.Context, ep config.WebhookEndpoint, eventType string, body []byte) {
	maxRetries := ep.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := n.send(ctx, ep, body); err != nil {
			lastErr = err
			if attempt < maxRetries {
				time.Sleep(time.Second * time.Duration(attempt)) // linear backoff
			}
			continue
		}
		return // success
	}

	if n.deadLetter != nil && lastErr != nil {
		dl := DeadLetter{
			Timestamp:   time.Now(),
			WebhookName: ep.Name,
			URL:         ep.URL,
			EventType:   eventType,
			Payload:     string(body),
			Error:       lastErr.Error(),
			Attempts:    maxRetries,
		}
		_ = n.deadLetter.Append(dl)
	}
}

func (n *Notifier) send(ctx context.Context, ep config.WebhookEndpoint, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Planera-Webhook/1.0")

	if ep.Secret != "" {
		req.Header.Set("X-Planera-Signature", sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// sign computes HMAC-SHA256 of the payload using the secret.
func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
