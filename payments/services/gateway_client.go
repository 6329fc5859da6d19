package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"municipal-portal-backend/config"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// GatewayOrder is the gateway's view of a payment order. Amounts are in
// the smallest currency unit (paise).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayClient talks to the hosted payment gateway over its REST API.
// Outbound calls share a rate limiter so a burst of checkouts cannot
// trip the gateway's request quota.
type GatewayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGatewayClient(baseURL, keyID, keySecret string) *GatewayClient {
	return &GatewayClient{
		baseURL:    baseURL,
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
	}
}

func NewGatewayClientFromEnv() (*GatewayClient, error) {
	baseURL := config.GetEnv("PAYMENT_GATEWAY_URL")
	keyID := config.GetEnv("PAYMENT_GATEWAY_KEY_ID")
	keySecret := config.GetEnv("PAYMENT_GATEWAY_KEY_SECRET")
	if baseURL == "" || keyID == "" || keySecret == "" {
		return nil, errors.New("payment gateway environment is not configured")
	}
	return NewGatewayClient(baseURL, keyID, keySecret), nil
}

// KeyID is exposed so the frontend checkout widget can be initialized.
func (g *GatewayClient) KeyID() string {
	return g.keyID
}

// CreateOrder registers a payable order with the gateway. The decimal
// amount is converted to paise.
func (g *GatewayClient) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	paise := amount.Mul(decimal.NewFromInt(100)).IntPart()
	body, err := json.Marshal(createOrderRequest{
		Amount:   paise,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway rejected order: status %d: %s", resp.StatusCode, string(respBody))
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway order: %w", err)
	}
	if order.ID == "" {
		return nil, errors.New("gateway order response missing id")
	}
	return &order, nil
}

// VerifySignature checks the callback signature the gateway computes
// over "<orderID>|<paymentID>" with the shared secret.
func (g *GatewayClient) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
