package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Button is one inline action button attached to a message. Action carries an
// opaque tag routed back through the webhook as a callback; URL buttons open
// an external link instead.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

// Message is an outbound text message with optional button rows.
type Message struct {
	ChatID  int64      `json:"chat_id"`
	Text    string     `json:"text"`
	Buttons [][]Button `json:"buttons,omitempty"`
}

// Document is an outbound downloadable file payload.
type Document struct {
	ChatID   int64  `json:"chat_id"`
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
	Caption  string `json:"caption,omitempty"`
}

// Transport delivers outbound chat traffic to the gateway.
type Transport interface {
	SendMessage(ctx context.Context, msg Message) error
	SendDocument(ctx context.Context, doc Document) error
}

// LogTransport logs outbound traffic instead of delivering it. Used in
// development when no gateway is configured.
type LogTransport struct{}

// SendMessage logs the message.
func (LogTransport) SendMessage(_ context.Context, msg Message) error {
	slog.Info("chat message (no gateway)", "chat", msg.ChatID, "text", msg.Text)
	return nil
}

// SendDocument logs the document metadata.
func (LogTransport) SendDocument(_ context.Context, doc Document) error {
	slog.Info("chat document (no gateway)", "chat", doc.ChatID, "filename", doc.Filename, "bytes", len(doc.Content))
	return nil
}

// HTTPTransport posts outbound traffic to a chat gateway over HTTP.
type HTTPTransport struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPTransport creates a transport for the given gateway base URL.
func NewHTTPTransport(baseURL, token string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage posts a text message to the gateway.
func (t *HTTPTransport) SendMessage(ctx context.Context, msg Message) error {
	return t.post(ctx, "/sendMessage", msg)
}

// SendDocument posts a file payload to the gateway.
func (t *HTTPTransport) SendDocument(ctx context.Context, doc Document) error {
	return t.post(ctx, "/sendDocument", doc)
}

func (t *HTTPTransport) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway %s returned status %d", path, resp.StatusCode)
	}
	return nil
}
