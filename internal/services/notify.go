// Package services provides the business logic layer for the packet tracker.
// This file implements the completion notification sink.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier is the sink fired when a packet first reaches 100%. It is invoked
// exactly once per completion transition, after the signature transaction has
// committed. Failures are logged by the caller and never surfaced to the
// signer.
type Notifier interface {
	Notify(ctx context.Context, freshmanName string) error
}

// SlackNotifier posts a completion message to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier creates a SlackNotifier for the given webhook URL.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify posts the "on packet" announcement for the freshman.
func (n *SlackNotifier) Notify(ctx context.Context, freshmanName string) error {
	payload, err := json.Marshal(map[string]string{
		"text": fmt.Sprintf("%s is on 100%%! :tada:", freshmanName),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// NopNotifier discards notifications. Used when no webhook is configured.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(ctx context.Context, freshmanName string) error {
	return nil
}
