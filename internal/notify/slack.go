// Package notify delivers outbound notifications to Slack via an incoming
// webhook. Delivery is best-effort: a missing webhook URL skips silently and
// failures never propagate past logging at the call site.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Rafuego/symphony-v3/internal/service"
)

type Slack struct {
	webhookURL string
	client     *http.Client
}

func NewSlack(webhookURL string) *Slack {
	return &Slack{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type block map[string]any

func (s *Slack) Send(ctx context.Context, p service.NotifyPayload) error {
	if s.webhookURL == "" {
		return nil
	}

	reqType := p.RequestType
	if reqType == "" {
		reqType = "general"
	}

	blocks := []block{
		{
			"type": "header",
			"text": block{"type": "plain_text", "text": p.Title, "emoji": true},
		},
		{
			"type": "section",
			"fields": []block{
				{"type": "mrkdwn", "text": "*Client:*\n" + p.ClientName},
				{"type": "mrkdwn", "text": "*Type:*\n" + reqType},
			},
		},
		{
			"type": "section",
			"text": block{"type": "mrkdwn", "text": "*Details:*\n" + p.Message},
		},
	}
	if p.Link != "" {
		blocks = append(blocks, block{
			"type": "actions",
			"elements": []block{{
				"type":  "button",
				"text":  block{"type": "plain_text", "text": "View in Symphony", "emoji": true},
				"url":   p.Link,
				"style": "primary",
			}},
		})
	}

	body, err := json.Marshal(map[string]any{"blocks": blocks})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("slack webhook returned %d", resp.StatusCode)
	}
	return nil
}
