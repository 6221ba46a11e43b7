package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/payment"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// named in-memory DB with a shared cache: a plain :memory: DSN gives every
	// pooled connection its own empty database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.User{},
		&model.SuperAdmin{},
		&model.Order{},
		&model.OrderItem{},
		&model.ShippingInfo{},
		&model.QRCode{},
		&model.Link{},
	))
	return db
}

// mockPaymentClient implements payment.Client for testing.
type mockPaymentClient struct {
	created   []payment.CreatePaymentRequest
	status    map[string]string
	nextID    int
	createErr error
	getErr    error
}

func newMockPaymentClient() *mockPaymentClient {
	return &mockPaymentClient{status: map[string]string{}}
}

func (m *mockPaymentClient) CreatePayment(_ context.Context, req payment.CreatePaymentRequest) (*payment.Payment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	id := fmt.Sprintf("tr_%03d", m.nextID)
	m.created = append(m.created, req)
	m.status[id] = payment.StatusOpen
	return &payment.Payment{ID: id, Status: payment.StatusOpen, CheckoutURL: "https://pay.example/checkout/" + id}, nil
}

// lastID returns the id handed out by the most recent CreatePayment.
func (m *mockPaymentClient) lastID() string {
	return fmt.Sprintf("tr_%03d", m.nextID)
}

func (m *mockPaymentClient) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	st, ok := m.status[id]
	if !ok {
		return nil, fmt.Errorf("unknown payment %s", id)
	}
	return &payment.Payment{ID: id, Status: st}, nil
}

// mockEmail implements EmailSender and records every send.
type mockEmail struct {
	confirmations []string // recipient addresses
	lastCode      string
	lastImageURL  string
	resets        []string // reset links
	err           error
}

func (m *mockEmail) SendPurchaseConfirmation(to, code string, codeID uint, imageURL string) error {
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, to)
	m.lastCode = code
	m.lastImageURL = imageURL
	return nil
}

func (m *mockEmail) SendPasswordReset(to, link string) error {
	if m.err != nil {
		return m.err
	}
	m.resets = append(m.resets, link)
	return nil
}
