package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// SMSClient fala com o gateway de SMS por HTTP (POST JSON {to, text}).
type SMSClient struct {
	GatewayURL string
	Token      string

	httpClient *http.Client
}

// NewSMSClientFromEnv monta o cliente a partir das ENVs SMS_GATEWAY_URL / SMS_GATEWAY_TOKEN.
// URL vazia devolve nil (canal desabilitado).
func NewSMSClientFromEnv() *SMSClient {
	url := strings.TrimSpace(os.Getenv("SMS_GATEWAY_URL"))
	if url == "" {
		return nil
	}
	return &SMSClient{
		GatewayURL: url,
		Token:      strings.TrimSpace(os.Getenv("SMS_GATEWAY_TOKEN")),
	}
}

// SendText envia um SMS para um número.
func (s *SMSClient) SendText(ctx context.Context, to string, text string) error {
	if s == nil || s.GatewayURL == "" {
		return fmt.Errorf("sms client not configured")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("sms recipient is empty")
	}

	reqBody := map[string]any{
		"to":   to,
		"text": text,
	}
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.GatewayURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.httpClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
