package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/payment"
)

type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error)
	Reconcile(ctx context.Context, orderID uint) (OrderStatus, error)
	ReconcileByPaymentID(ctx context.Context, paymentID string) error
}

type CreateOrderRequest struct {
	ProductID uint
	Quantity  int
	Email     string
	Shipping  ShippingRequest
}

type ShippingRequest struct {
	Name         string
	Company      string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
	Phone        string
}

type CreateOrderResult struct {
	OrderID     uint   `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// OrderStatus is what polling clients see: the local status, the raw
// processor status for information, and only this order's codes.
type OrderStatus struct {
	OrderID       uint              `json:"orderId"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"paymentStatus,omitempty"`
	Items         []model.OrderItem `json:"items"`
	Codes         []CodeSummary     `json:"codes"`
}

type CodeSummary struct {
	Code        string `json:"code"`
	IsActivated bool   `json:"isActivated"`
}

type orderService struct {
	db         *gorm.DB
	pay        payment.Client
	inventory  InventoryService
	email      EmailSender
	publicBase string
}

func NewOrderService(db *gorm.DB, pay payment.Client, inventory InventoryService, email EmailSender, publicBase string) OrderService {
	return &orderService{db: db, pay: pay, inventory: inventory, email: email, publicBase: publicBase}
}

func (s *orderService) Create(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error) {
	if err := validateCreate(req); err != nil {
		return CreateOrderResult{}, err
	}

	var p model.Product
	if err := s.db.First(&p, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CreateOrderResult{}, fmt.Errorf("%w: product %d", ErrNotFound, req.ProductID)
		}
		return CreateOrderResult{}, err
	}
	if !p.Active {
		return CreateOrderResult{}, fmt.Errorf("%w: product %q is not purchasable", ErrValidation, p.Name)
	}

	order := model.Order{
		Email:      req.Email,
		TotalCents: p.PriceCents * int64(req.Quantity),
		Currency:   "EUR",
		Status:     model.OrderPending,
		Items: []model.OrderItem{{
			ProductID:  p.ID,
			Quantity:   req.Quantity,
			PriceCents: p.PriceCents, // snapshot: later price edits must not touch this order
		}},
		Shipping: &model.ShippingInfo{
			Name:           req.Shipping.Name,
			Company:        req.Shipping.Company,
			AddressLine1:   req.Shipping.AddressLine1,
			AddressLine2:   req.Shipping.AddressLine2,
			City:           req.Shipping.City,
			PostalCode:     req.Shipping.PostalCode,
			Country:        req.Shipping.Country,
			Phone:          req.Shipping.Phone,
			Email:          req.Email,
			DeliveryStatus: model.DeliveryPending,
		},
	}
	if err := s.db.Create(&order).Error; err != nil {
		return CreateOrderResult{}, err
	}

	pay, err := s.pay.CreatePayment(ctx, payment.CreatePaymentRequest{
		AmountCents: order.TotalCents,
		Currency:    order.Currency,
		Description: fmt.Sprintf("Commande #%d — %s x%d", order.ID, p.Name, req.Quantity),
		RedirectURL: fmt.Sprintf("%s/merci?orderId=%d", s.publicBase, order.ID),
		WebhookURL:  s.publicBase + "/api/webhooks/payment",
		Metadata: map[string]string{
			"orderId": fmt.Sprint(order.ID),
			"email":   order.Email,
		},
	})
	if err != nil {
		log.Printf("order %d: payment session failed: %v", order.ID, err)
		_ = s.db.Model(&order).Update("status", model.OrderFailed).Error
		return CreateOrderResult{}, fmt.Errorf("%w: could not start payment", ErrUpstream)
	}

	if err := s.db.Model(&order).Update("payment_id", pay.ID).Error; err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{OrderID: order.ID, CheckoutURL: pay.CheckoutURL}, nil
}

// Reconcile syncs the local order status with the processor's authoritative
// one. It is the single entry point for both client polling and webhooks, and
// it is safe to call any number of times: the PENDING→PAID flip is a
// conditional update and allocation guards itself.
func (s *orderService) Reconcile(ctx context.Context, orderID uint) (OrderStatus, error) {
	var order model.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderStatus{}, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return OrderStatus{}, err
	}

	out := OrderStatus{OrderID: order.ID, Status: order.Status, Items: order.Items}

	if order.PaymentID != nil {
		pay, err := s.pay.GetPayment(ctx, *order.PaymentID)
		if err != nil {
			log.Printf("order %d: payment status query failed: %v", order.ID, err)
			return OrderStatus{}, fmt.Errorf("%w: could not query payment status", ErrUpstream)
		}
		out.PaymentStatus = pay.Status

		switch pay.Status {
		case payment.StatusPaid:
			if err := s.markPaid(&order); err != nil {
				return OrderStatus{}, err
			}
		case payment.StatusCanceled:
			s.closePending(&order, model.OrderCancelled)
		case payment.StatusExpired, payment.StatusFailed:
			s.closePending(&order, model.OrderFailed)
		}
		out.Status = order.Status
	}

	var codes []model.QRCode
	if err := s.db.Where("order_id = ?", order.ID).Order("id asc").Find(&codes).Error; err != nil {
		return OrderStatus{}, err
	}
	for _, c := range codes {
		out.Codes = append(out.Codes, CodeSummary{Code: c.Code, IsActivated: c.IsActivated})
	}
	return out, nil
}

func (s *orderService) ReconcileByPaymentID(ctx context.Context, paymentID string) error {
	var order model.Order
	if err := s.db.Where("payment_id = ?", paymentID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
		}
		return err
	}
	_, err := s.Reconcile(ctx, order.ID)
	return err
}

// markPaid flips the order to PAID exactly once and runs allocation on the
// flip. The confirmation mail is best-effort and only goes out on the flip,
// never on later reconciliations.
func (s *orderService) markPaid(order *model.Order) error {
	res := s.db.Model(&model.Order{}).
		Where("id = ? AND status <> ?", order.ID, model.OrderPaid).
		Update("status", model.OrderPaid)
	if res.Error != nil {
		return res.Error
	}
	order.Status = model.OrderPaid
	if res.RowsAffected == 0 {
		return nil // already PAID, nothing more to do
	}

	codes, err := s.inventory.Allocate(order.ID)
	if err != nil {
		return err
	}
	if len(codes) > 0 {
		first := codes[0]
		if err := s.email.SendPurchaseConfirmation(order.Email, first.Code, first.ID, first.ImageURL); err != nil {
			log.Printf("order %d: confirmation mail failed: %v", order.ID, err)
		}
	}
	return nil
}

// closePending maps a terminal processor status onto a still-PENDING order.
// PAID is final and is never overwritten.
func (s *orderService) closePending(order *model.Order, status string) {
	res := s.db.Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, model.OrderPending).
		Update("status", status)
	if res.Error != nil {
		log.Printf("order %d: close as %s failed: %v", order.ID, status, res.Error)
		return
	}
	if res.RowsAffected == 1 {
		order.Status = status
	}
}

func validateCreate(req CreateOrderRequest) error {
	switch {
	case req.ProductID == 0:
		return fmt.Errorf("%w: productId is required", ErrValidation)
	case req.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	case req.Email == "":
		return fmt.Errorf("%w: email is required", ErrValidation)
	case req.Shipping.Name == "":
		return fmt.Errorf("%w: shipping name is required", ErrValidation)
	case req.Shipping.AddressLine1 == "":
		return fmt.Errorf("%w: shipping address is required", ErrValidation)
	case req.Shipping.City == "":
		return fmt.Errorf("%w: shipping city is required", ErrValidation)
	case req.Shipping.PostalCode == "":
		return fmt.Errorf("%w: shipping postal code is required", ErrValidation)
	case req.Shipping.Country == "":
		return fmt.Errorf("%w: shipping country is required", ErrValidation)
	}
	return nil
}
