package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderSendsPaiseAndBasicAuth(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotReq createOrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_9A33XWu170gUtm",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "key_test", "secret_test")
	order, err := client.CreateOrder(context.Background(), decimal.NewFromFloat(50.00), "INR", "RCT-abc12345")
	require.NoError(t, err)

	require.Equal(t, "/v1/orders", gotPath)
	require.Equal(t, "key_test", gotUser)
	require.Equal(t, "secret_test", gotPass)
	require.Equal(t, int64(5000), gotReq.Amount)
	require.Equal(t, "INR", gotReq.Currency)
	require.Equal(t, "order_9A33XWu170gUtm", order.ID)
	require.Equal(t, "created", order.Status)
}

func TestCreateOrderRejectedByGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"amount too small"}`))
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "key_test", "secret_test")
	_, err := client.CreateOrder(context.Background(), decimal.NewFromInt(0), "INR", "RCT-abc12345")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 400")
}

func TestCreateOrderMissingOrderID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewGatewayClient(server.URL, "key_test", "secret_test")
	_, err := client.CreateOrder(context.Background(), decimal.NewFromInt(50), "INR", "RCT-abc12345")
	require.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	client := NewGatewayClient("http://unused", "key_test", "secret_test")

	mac := hmac.New(sha256.New, []byte("secret_test"))
	mac.Write([]byte("order_123|pay_456"))
	valid := hex.EncodeToString(mac.Sum(nil))

	require.True(t, client.VerifySignature("order_123", "pay_456", valid))
	require.False(t, client.VerifySignature("order_123", "pay_456", "tampered"))
	require.False(t, client.VerifySignature("order_124", "pay_456", valid))
}
