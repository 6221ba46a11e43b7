package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

type AdminHTTP struct {
	S         service.AdminService
	Inventory service.InventoryService
	Catalog   service.CatalogService
}

func NewAdminHTTP(s service.AdminService, inv service.InventoryService, cat service.CatalogService) *AdminHTTP {
	return &AdminHTTP{S: s, Inventory: inv, Catalog: cat}
}

func (h *AdminHTTP) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tok, err := h.S.Login(req.Username, req.Password)
	if err != nil {
		abortErr(c, err)
		return
	}
	setSessionCookie(c, adminCookie, tok, 24*3600)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHTTP) Logout(c *gin.Context) {
	setSessionCookie(c, adminCookie, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AdminHTTP) Stats(c *gin.Context) {
	stats, err := h.S.Stats()
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHTTP) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, total, err := h.S.ListOrders(c.Query("status"), page, limit)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page})
}

func (h *AdminHTTP) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.S.GetOrder(uint(id))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AdminHTTP) UpdateShipping(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req struct {
		DeliveryStatus string  `json:"deliveryStatus" binding:"required"`
		TrackingNumber *string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sh, err := h.S.UpdateShipping(uint(id), req.DeliveryStatus, req.TrackingNumber)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sh)
}

func (h *AdminHTTP) ListCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	codes, total, err := h.Inventory.ListCodes(c.Query("filter"), page, limit)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"codes": codes, "total": total, "page": page})
}

func (h *AdminHTTP) GenerateCodes(c *gin.Context) {
	var req struct {
		Month int `json:"month" binding:"required"`
		Year  int `json:"year" binding:"required"`
		Count int `json:"count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	codes, err := h.Inventory.GenerateBatch(req.Month, req.Year, req.Count)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"generated": len(codes), "codes": codes})
}

func (h *AdminHTTP) InventoryHealth(c *gin.Context) {
	health, err := h.Inventory.Health()
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, health)
}

func (h *AdminHTTP) CreateProduct(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		PriceCents  int64  `json:"priceCents" binding:"required,min=1"`
		Features    string `json:"features"`
		Active      *bool  `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	p, err := h.Catalog.Create(model.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Features:    req.Features,
		Active:      active,
	})
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *AdminHTTP) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		PriceCents  *int64  `json:"priceCents"`
		Features    *string `json:"features"`
		Active      *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p, err := h.Catalog.Update(uint(id), service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Features:    req.Features,
		Active:      req.Active,
	})
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
