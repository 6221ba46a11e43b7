// Package payment wraps the two payment-provider endpoints the shop needs:
// creating a hosted-checkout payment and fetching its current status.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Provider statuses we care about. Anything other than StatusPaid leaves the
// order alone or fails it; the raw value is passed through to callers as
// informational only.
const (
	StatusOpen     = "open"
	StatusPaid     = "paid"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
	StatusFailed   = "failed"
)

type Client interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error)
	GetPayment(ctx context.Context, id string) (*Payment, error)
}

type CreatePaymentRequest struct {
	AmountCents int64
	Currency    string
	Description string
	RedirectURL string
	WebhookURL  string
	Metadata    map[string]string
}

type Payment struct {
	ID          string
	Status      string
	CheckoutURL string
}

type httpClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// NewClient returns a Client for a Mollie-style v2 payments API.
func NewClient(baseURL, apiKey string) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

type apiAmount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type apiPayment struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Amount      apiAmount         `json:"amount"`
	Description string            `json:"description"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
	WebhookURL  string            `json:"webhookUrl,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Links       struct {
		Checkout struct {
			Href string `json:"href"`
		} `json:"checkout"`
	} `json:"_links"`
}

func (c *httpClient) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	body := apiPayment{
		Amount:      apiAmount{Currency: req.Currency, Value: centsToValue(req.AmountCents)},
		Description: req.Description,
		RedirectURL: req.RedirectURL,
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
	}
	var out apiPayment
	if err := c.do(ctx, http.MethodPost, "/v2/payments", &body, &out); err != nil {
		return nil, err
	}
	return &Payment{ID: out.ID, Status: out.Status, CheckoutURL: out.Links.Checkout.Href}, nil
}

func (c *httpClient) GetPayment(ctx context.Context, id string) (*Payment, error) {
	var out apiPayment
	if err := c.do(ctx, http.MethodGet, "/v2/payments/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &Payment{ID: out.ID, Status: out.Status, CheckoutURL: out.Links.Checkout.Href}, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("payment api: %s %s: %d: %s", method, path, resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// centsToValue renders an amount in cents as the "58.00" string form the
// provider expects.
func centsToValue(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
