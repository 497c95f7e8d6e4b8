package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

//go:generate mockgen -source=whatsapp_client.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
	SendLocationRequest(ctx context.Context, to, body string) error
}

// Client talks to the WhatsApp Cloud (Graph) API. Delivery is best-effort:
// callers log failures and move on, nothing retries.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
	logger        *zap.Logger
}

func NewClient(baseURL, token, phoneNumberID string, logger *zap.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		baseURL:       baseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		logger:        logger.Named("notify.whatsapp"),
	}
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Interactive      interactiveBody `json:"interactive"`
}

type interactiveBody struct {
	Type   string            `json:"type"`
	Body   textBody          `json:"body"`
	Action interactiveAction `json:"action"`
}

type interactiveAction struct {
	Name string `json:"name"`
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	return c.post(ctx, textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: body},
	})
}

// SendLocationRequest asks the user to share a location via the interactive
// location_request_message, falling back to a plain text prompt when the
// interactive call fails.
func (c *Client) SendLocationRequest(ctx context.Context, to, body string) error {
	err := c.post(ctx, interactivePayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: interactiveBody{
			Type:   "location_request_message",
			Body:   textBody{Body: body},
			Action: interactiveAction{Name: "send_location"},
		},
	})
	if err == nil {
		return nil
	}

	c.logger.Warn("interactive location request failed, falling back to text",
		zap.String("to", to),
		zap.Error(err),
	)
	return c.SendText(ctx, to, body)
}

func (c *Client) post(ctx context.Context, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph api returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
