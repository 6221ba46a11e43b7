package model

import "time"

// Order statuses. Orders never move backward from PAID.
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderCancelled = "CANCELLED"
	OrderFailed    = "FAILED"
)

// Delivery statuses on ShippingInfo.
const (
	DeliveryPending    = "PENDING"
	DeliveryProcessing = "PROCESSING"
	DeliveryShipped    = "SHIPPED"
	DeliveryDelivered  = "DELIVERED"
	DeliveryCancelled  = "CANCELLED"
)

type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `gorm:"not null" json:"priceCents"`
	// Features is a JSON-encoded ordered list of marketing bullet points.
	Features  string    `gorm:"column:features" json:"features"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Order struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	Email      string  `gorm:"not null;index" json:"email"`
	TotalCents int64   `gorm:"not null" json:"totalCents"`
	Currency   string  `gorm:"not null;default:'EUR'" json:"currency"`
	Status     string  `gorm:"not null;default:'PENDING';index" json:"status"`
	PaymentID  *string `gorm:"column:payment_id;uniqueIndex" json:"paymentId,omitempty"`

	Items    []OrderItem   `json:"items"`
	Shipping *ShippingInfo `json:"shipping,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderItem struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	OrderID    uint  `gorm:"index;not null" json:"orderId"`
	ProductID  uint  `gorm:"not null" json:"productId"`
	Quantity   int   `gorm:"not null" json:"quantity"`
	PriceCents int64 `gorm:"not null" json:"priceCents"` // unit price at time of purchase

	CreatedAt time.Time `json:"createdAt"`
}

type ShippingInfo struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	OrderID        uint    `gorm:"uniqueIndex;not null" json:"orderId"`
	Name           string  `gorm:"not null" json:"name"`
	Company        string  `json:"company"`
	AddressLine1   string  `gorm:"not null" json:"addressLine1"`
	AddressLine2   string  `json:"addressLine2"`
	City           string  `gorm:"not null" json:"city"`
	PostalCode     string  `gorm:"not null" json:"postalCode"`
	Country        string  `gorm:"not null" json:"country"`
	Phone          string  `json:"phone"`
	Email          string  `gorm:"not null" json:"email"`
	DeliveryStatus string  `gorm:"not null;default:'PENDING'" json:"deliveryStatus"`
	TrackingNumber *string `json:"trackingNumber,omitempty"`

	ShippedAt   *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// QRCode is one plaque identity. A row is available iff IsActivated is false
// and OrderID is null; once OrderID is set it is reserved for that order, and
// once IsActivated is true it is permanently bound to one user and one link.
// ImageURL is immutable after batch generation — the printed plaque always
// encodes the same redirect target.
type QRCode struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	ImageURL    string `gorm:"not null" json:"imageUrl"`
	IsActivated bool   `gorm:"not null;default:false;index" json:"isActivated"`
	OrderID     *uint  `gorm:"index" json:"orderId,omitempty"`
	UserID      *uint  `gorm:"index" json:"userId,omitempty"`
	LinkID      *uint  `json:"linkId,omitempty"`
	BatchMonth  int    `gorm:"not null" json:"batchMonth"`
	BatchYear   int    `gorm:"not null" json:"batchYear"`

	Link *Link `json:"link,omitempty"`

	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	ActivatedAt *time.Time `json:"activatedAt,omitempty"`
}

// Link is created fresh on every activation, never reused, so one user can
// accumulate several rows over time.
type Link struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"userId"`
	GoogleReviewURL string    `gorm:"column:google_review_url;not null" json:"googleReviewUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"column:password_hash;not null" json:"-"`
	ResetToken       *string    `gorm:"column:reset_token;index" json:"-"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry" json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// SuperAdmin is a separate principal from User; its sessions live in a
// distinct token/cookie namespace.
type SuperAdmin struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (SuperAdmin) TableName() string { return "super_admins" }
