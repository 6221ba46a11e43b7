package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
)

type AdminService interface {
	Login(username, password string) (string, error) // returns admin JWT
	ParseToken(token string) (uint, error)
	CreateAdmin(username, password, firstName, lastName string) (model.SuperAdmin, error)
	Stats() (AdminStats, error)
	ListOrders(status string, page, limit int) ([]model.Order, int64, error)
	GetOrder(id uint) (AdminOrder, error)
	UpdateShipping(orderID uint, deliveryStatus string, trackingNumber *string) (model.ShippingInfo, error)
}

type AdminStats struct {
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	RevenueCents   int64            `json:"revenueCents"`
	UserCount      int64            `json:"userCount"`
	Inventory      InventoryHealth  `json:"inventory"`
}

type AdminOrder struct {
	model.Order
	Codes []model.QRCode `json:"codes"`
}

type adminService struct {
	db        *gorm.DB
	inventory InventoryService
}

func NewAdminService(db *gorm.DB, inventory InventoryService) AdminService {
	return &adminService{db: db, inventory: inventory}
}

func (s *adminService) Login(username, password string) (string, error) {
	var a model.SuperAdmin
	if err := s.db.Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !a.IsActive {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	_ = s.db.Model(&a).Update("last_login_at", now).Error

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": a.ID,
		"typ": "admin",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	return t.SignedString(jwtSecret())
}

func (s *adminService) ParseToken(token string) (uint, error) {
	return parseTyped(token, "admin")
}

func (s *adminService) CreateAdmin(username, password, firstName, lastName string) (model.SuperAdmin, error) {
	if username == "" || len(password) < 8 {
		return model.SuperAdmin{}, fmt.Errorf("%w: username and a password of at least 8 characters are required", ErrValidation)
	}
	var existed model.SuperAdmin
	if err := s.db.Where("username = ?", username).First(&existed).Error; err == nil {
		return model.SuperAdmin{}, fmt.Errorf("%w: username already taken", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SuperAdmin{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.SuperAdmin{}, err
	}
	a := model.SuperAdmin{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
	}
	if err := s.db.Create(&a).Error; err != nil {
		return model.SuperAdmin{}, err
	}
	return a, nil
}

func (s *adminService) Stats() (AdminStats, error) {
	stats := AdminStats{OrdersByStatus: map[string]int64{}}

	rows, err := s.db.Model(&model.Order{}).
		Select("status, count(*) as n").
		Group("status").
		Rows()
	if err != nil {
		return AdminStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return AdminStats{}, err
		}
		stats.OrdersByStatus[status] = n
	}

	err = s.db.Model(&model.Order{}).
		Where("status = ?", model.OrderPaid).
		Select("coalesce(sum(total_cents), 0)").
		Scan(&stats.RevenueCents).Error
	if err != nil {
		return AdminStats{}, err
	}

	if err := s.db.Model(&model.User{}).Count(&stats.UserCount).Error; err != nil {
		return AdminStats{}, err
	}

	inv, err := s.inventory.Health()
	if err != nil {
		return AdminStats{}, err
	}
	stats.Inventory = inv
	return stats, nil
}

func (s *adminService) ListOrders(status string, page, limit int) ([]model.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := s.db.Model(&model.Order{})
	if status != "" {
		if !validOrderStatus(status) {
			return nil, 0, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []model.Order
	err := q.Preload("Items").Preload("Shipping").
		Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (s *adminService) GetOrder(id uint) (AdminOrder, error) {
	var order model.Order
	err := s.db.Preload("Items").Preload("Shipping").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdminOrder{}, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return AdminOrder{}, err
	}
	var codes []model.QRCode
	if err := s.db.Where("order_id = ?", id).Order("id asc").Find(&codes).Error; err != nil {
		return AdminOrder{}, err
	}
	return AdminOrder{Order: order, Codes: codes}, nil
}

func (s *adminService) UpdateShipping(orderID uint, deliveryStatus string, trackingNumber *string) (model.ShippingInfo, error) {
	if !validDeliveryStatus(deliveryStatus) {
		return model.ShippingInfo{}, fmt.Errorf("%w: unknown delivery status %q", ErrValidation, deliveryStatus)
	}
	var sh model.ShippingInfo
	if err := s.db.Where("order_id = ?", orderID).First(&sh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.ShippingInfo{}, fmt.Errorf("%w: no shipping info for order %d", ErrNotFound, orderID)
		}
		return model.ShippingInfo{}, err
	}

	fields := map[string]any{"delivery_status": deliveryStatus}
	if trackingNumber != nil {
		fields["tracking_number"] = *trackingNumber
	}
	now := time.Now()
	if deliveryStatus == model.DeliveryShipped && sh.ShippedAt == nil {
		fields["shipped_at"] = now
	}
	if deliveryStatus == model.DeliveryDelivered && sh.DeliveredAt == nil {
		fields["delivered_at"] = now
	}
	if err := s.db.Model(&sh).Updates(fields).Error; err != nil {
		return model.ShippingInfo{}, err
	}
	if err := s.db.Where("order_id = ?", orderID).First(&sh).Error; err != nil {
		return model.ShippingInfo{}, err
	}
	return sh, nil
}

func validOrderStatus(s string) bool {
	switch s {
	case model.OrderPending, model.OrderPaid, model.OrderCancelled, model.OrderFailed:
		return true
	}
	return false
}

func validDeliveryStatus(s string) bool {
	switch s {
	case model.DeliveryPending, model.DeliveryProcessing, model.DeliveryShipped,
		model.DeliveryDelivered, model.DeliveryCancelled:
		return true
	}
	return false
}
