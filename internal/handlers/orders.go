package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

type OrderHTTP struct {
	S service.OrderService
}

func NewOrderHTTP(s service.OrderService) *OrderHTTP { return &OrderHTTP{S: s} }

type createOrderReq struct {
	ProductID uint   `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Email     string `json:"email" binding:"required,email"`
	Shipping  struct {
		Name         string `json:"name" binding:"required"`
		Company      string `json:"company"`
		AddressLine1 string `json:"addressLine1" binding:"required"`
		AddressLine2 string `json:"addressLine2"`
		City         string `json:"city" binding:"required"`
		PostalCode   string `json:"postalCode" binding:"required"`
		Country      string `json:"country" binding:"required"`
		Phone        string `json:"phone"`
	} `json:"shipping" binding:"required"`
}

func (h *OrderHTTP) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	res, err := h.S.Create(c.Request.Context(), service.CreateOrderRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Email:     req.Email,
		Shipping: service.ShippingRequest{
			Name:         req.Shipping.Name,
			Company:      req.Shipping.Company,
			AddressLine1: req.Shipping.AddressLine1,
			AddressLine2: req.Shipping.AddressLine2,
			City:         req.Shipping.City,
			PostalCode:   req.Shipping.PostalCode,
			Country:      req.Shipping.Country,
			Phone:        req.Shipping.Phone,
		},
	})
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Status is the polling half of reconciliation: the thank-you page calls it
// until the order flips to PAID.
func (h *OrderHTTP) Status(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	st, err := h.S.Reconcile(c.Request.Context(), uint(id))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Webhook is the provider callback. Per the provider's model the body only
// carries the payment id; everything authoritative is re-fetched.
func (h *OrderHTTP) Webhook(c *gin.Context) {
	paymentID := c.PostForm("id")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payment id"})
		return
	}
	if err := h.S.ReconcileByPaymentID(c.Request.Context(), paymentID); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusOK)
}
