package notification

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

// SMSSender delivers a text message to a 10-digit Indian phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// HTTPSMSGateway posts messages to a JSON SMS gateway.
type HTTPSMSGateway struct {
	URL      string
	APIKey   string
	SenderID string
	Client   *http.Client
}

// NewHTTPSMSGateway returns a gateway client with a bounded timeout.
func NewHTTPSMSGateway(url, apiKey, senderID string) *HTTPSMSGateway {
	return &HTTPSMSGateway{
		URL:      url,
		APIKey:   apiKey,
		SenderID: senderID,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type smsRequest struct {
	To      string `json:"to"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// SendSMS posts one message. Any non-2xx reply is an error.
func (g *HTTPSMSGateway) SendSMS(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(smsRequest{To: "91" + phone, Sender: g.SenderID, Message: message})
	if err != nil {
		return fmt.Errorf("failed to encode sms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sms gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

// LogSMSSender logs messages instead of sending them. Used when SMS is disabled.
type LogSMSSender struct {
	Logger *zap.Logger
}

func (s LogSMSSender) SendSMS(_ context.Context, phone, message string) error {
	s.Logger.Info("sms delivery disabled, message logged", zap.String("phone", phone), zap.String("message", message))
	return nil
}
