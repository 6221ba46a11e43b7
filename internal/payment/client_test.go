package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	var got apiPayment
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/payments", r.URL.Path)
		assert.Equal(t, "Bearer test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		resp := apiPayment{ID: "tr_abc123", Status: StatusOpen}
		resp.Links.Checkout.Href = "https://pay.example/checkout/tr_abc123"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test_key")
	p, err := c.CreatePayment(context.Background(), CreatePaymentRequest{
		AmountCents: 5800,
		Currency:    "EUR",
		Description: "Commande #1",
		RedirectURL: "https://shop.example/merci?orderId=1",
		WebhookURL:  "https://shop.example/api/webhooks/payment",
		Metadata:    map[string]string{"orderId": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "tr_abc123", p.ID)
	assert.Equal(t, StatusOpen, p.Status)
	assert.Equal(t, "https://pay.example/checkout/tr_abc123", p.CheckoutURL)

	assert.Equal(t, "EUR", got.Amount.Currency)
	assert.Equal(t, "58.00", got.Amount.Value)
	assert.Equal(t, "https://shop.example/merci?orderId=1", got.RedirectURL)
	assert.Equal(t, "1", got.Metadata["orderId"])
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/payments/tr_abc123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(apiPayment{ID: "tr_abc123", Status: StatusPaid})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test_key")
	p, err := c.GetPayment(context.Background(), "tr_abc123")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, p.Status)
}

func TestErrorStatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad_key")
	_, err := c.GetPayment(context.Background(), "tr_abc123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCentsToValue(t *testing.T) {
	assert.Equal(t, "58.00", centsToValue(5800))
	assert.Equal(t, "29.00", centsToValue(2900))
	assert.Equal(t, "0.05", centsToValue(5))
	assert.Equal(t, "129.99", centsToValue(12999))
}
