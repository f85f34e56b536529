package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dinio/internal/config"
)

// PayPalClient talks to the PayPal checkout REST API. Orders are created
// server-side and captured after the buyer approves in the PayPal popup.
type PayPalClient struct {
	cfg    config.PayPalConfig
	client *http.Client
}

func NewPayPalClient(cfg config.PayPalConfig) *PayPalClient {
	return &PayPalClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// ClientID exposes the public client id the browser SDK needs.
func (c *PayPalClient) ClientID() string {
	return c.cfg.ClientID
}

type PayPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(c.cfg.ClientID + ":" + c.cfg.Secret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIBase+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("paypal token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.AccessToken == "" {
		return "", fmt.Errorf("paypal token request failed: %s", body.Error)
	}
	return body.AccessToken, nil
}

// CreateOrder opens a CAPTURE-intent checkout order for the given amount.
func (c *PayPalClient) CreateOrder(ctx context.Context, amount float64) (*PayPalOrder, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": c.cfg.Currency,
					"value":         fmt.Sprintf("%.2f", amount),
				},
			},
		},
	}
	return c.post(ctx, token, "/v2/checkout/orders", payload)
}

// CaptureOrder captures an approved checkout order.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*PayPalOrder, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.post(ctx, token, "/v2/checkout/orders/"+orderID+"/capture", struct{}{})
}

func (c *PayPalClient) post(ctx context.Context, token, path string, payload interface{}) (*PayPalOrder, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("paypal API error: %s", apiErr.Message)
	}

	var order PayPalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("paypal response: %w", err)
	}
	return &order, nil
}
