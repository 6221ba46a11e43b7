package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/payment"
)

// Full purchase-to-review walk: order two 29€ plaques, pay, activate the
// first delivered code, scan it.
func TestPurchaseToReviewScenario(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	pay := newMockPaymentClient()
	email := &mockEmail{}
	inventory := NewInventoryService(db, testBase, 50)
	orders := NewOrderService(db, pay, inventory, email, testBase)
	auth := NewAuthService(db, email)
	activation := NewActivationService(db, auth, testBase, "")

	product := model.Product{Name: "Plaque Google Avis", PriceCents: 2900, Active: true}
	require.NoError(t, db.Create(&product).Error)
	_, err := inventory.GenerateBatch(1, 2026, 10)
	require.NoError(t, err)

	res, err := orders.Create(context.Background(), validCreateReq(product.ID, 2))
	require.NoError(t, err)

	var order model.Order
	require.NoError(t, db.First(&order, res.OrderID).Error)
	require.EqualValues(t, 5800, order.TotalCents)

	pay.status[pay.lastID()] = payment.StatusPaid
	st, err := orders.Reconcile(context.Background(), res.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderPaid, st.Status)
	require.Len(t, st.Codes, 2)

	var first model.QRCode
	require.NoError(t, db.Where("code = ?", st.Codes[0].Code).First(&first).Error)

	_, err = activation.Activate(first.ID, reviewURL, "buyer@example.com", "plaque-pass-1")
	require.NoError(t, err)

	target, err := activation.Resolve(first.Code)
	require.NoError(t, err)
	assert.Equal(t, reviewURL, target)

	// the second code still points at its activation page
	target, err = activation.Resolve(st.Codes[1].Code)
	require.NoError(t, err)
	assert.Contains(t, target, "/qr/"+st.Codes[1].Code+"/activation")
}
