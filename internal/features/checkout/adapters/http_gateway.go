package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"spice-market/internal/core/httpclient"
	"spice-market/internal/features/checkout/domain"
	"spice-market/internal/features/checkout/ports"
)

// HTTPGateway implements ports.PaymentGateway against an external REST
// payment provider.
type HTTPGateway struct {
	// client is the HTTP client used for gateway requests.
	client *http.Client
	// baseURL is the gateway's base URL.
	baseURL string
	// apiKey authenticates the merchant.
	apiKey string
}

// NewHTTPGateway creates a new instance of HTTPGateway.
func NewHTTPGateway(baseURL, apiKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		client:  httpclient.NewClient(timeout),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// chargePayload is the wire form of a charge request.
type chargePayload struct {
	Reference       string `json:"reference"`
	PaymentMethodID string `json:"payment_method_id"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
}

// chargeResponse is the wire form of the gateway's answer.
type chargeResponse struct {
	PaymentID string `json:"payment_id"`
	Reason    string `json:"reason,omitempty"`
}

// Charge posts the charge to the gateway and maps declines to the payment
// failure sentinel.
func (g *HTTPGateway) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	payload := chargePayload{
		Reference:       req.Reference,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          req.Amount.StringFixed(2),
		Currency:        "USD",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charge payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1/charges", g.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode charge response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return &ports.ChargeResult{PaymentID: decoded.PaymentID}, nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentFailed, decoded.Reason)
	default:
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
}
