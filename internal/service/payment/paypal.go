package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PayPalProvider charges through the PayPal Orders API
type PayPalProvider struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewPayPalProvider creates a new PayPal provider
func NewPayPalProvider(baseURL, clientID, clientSecret string) *PayPalProvider {
	return &PayPalProvider{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Name returns the provider name
func (p *PayPalProvider) Name() string {
	return "paypal"
}

type paypalOrderRequest struct {
	Intent        string            `json:"intent"`
	PurchaseUnits []paypalOrderUnit `json:"purchase_units"`
}

type paypalOrderUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Amount      paypalAmount `json:"amount"`
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Charge creates a captured order
func (p *PayPalProvider) Charge(ctx context.Context, amount float64, currency string, metadata map[string]string) (string, error) {
	body := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalOrderUnit{{
			ReferenceID: metadata["reservation_id"],
			Amount: paypalAmount{
				CurrencyCode: currency,
				Value:        fmt.Sprintf("%.2f", amount),
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.clientID, p.clientSecret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal returned status %d", resp.StatusCode)
	}

	var order paypalOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("failed to decode order response: %w", err)
	}
	if order.Status != "COMPLETED" && order.Status != "CREATED" {
		return "", fmt.Errorf("paypal order %s in status %s", order.ID, order.Status)
	}

	return order.ID, nil
}
