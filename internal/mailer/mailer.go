// Package mailer delivers transactional email through an HTTP email
// provider, either synchronously or via the message queue.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultEndpoint = "https://api.resend.com/emails"
	requestTimeout  = 10 * time.Second
)

// Message is one outbound email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers a message to the recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
}

// NewResendClient constructs a client for the Resend API.
func NewResendClient(apiKey, from string) (*ResendClient, error) {
	if apiKey == "" {
		return nil, errors.New("mail api key is required")
	}
	return &ResendClient{
		apiKey:   apiKey,
		from:     from,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts the message to the provider. A non-2xx response is an error;
// the caller decides whether to retry or swallow it.
func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(resendRequest{
		From:    c.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
