package service

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/qr"
)

// codeAlphabet leaves out 0/O, 1/l/I to keep codes readable off a plaque.
const (
	codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"
	codeLength   = 8
)

const maxClaimAttempts = 5

type InventoryService interface {
	GenerateBatch(month, year, count int) ([]model.QRCode, error)
	Allocate(orderID uint) ([]model.QRCode, error)
	Health() (InventoryHealth, error)
	ListCodes(filter string, page, limit int) ([]model.QRCode, int64, error)
}

type InventoryHealth struct {
	Available int64 `json:"available"`
	Assigned  int64 `json:"assigned"` // reserved for an order, not yet activated
	Activated int64 `json:"activated"`
	Total     int64 `json:"total"`
	Threshold int64 `json:"threshold"`
	NeedsMore bool  `json:"needsMore"`
}

type inventoryService struct {
	db         *gorm.DB
	publicBase string
	threshold  int64
}

func NewInventoryService(db *gorm.DB, publicBase string, threshold int64) InventoryService {
	return &inventoryService{db: db, publicBase: publicBase, threshold: threshold}
}

func (s *inventoryService) GenerateBatch(month, year, count int) ([]model.QRCode, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrValidation)
	}
	if year < 2020 || year > 2100 {
		return nil, fmt.Errorf("%w: implausible year %d", ErrValidation, year)
	}
	if count < 1 || count > 10000 {
		return nil, fmt.Errorf("%w: count must be 1-10000", ErrValidation)
	}

	codes := make([]model.QRCode, 0, count)
	for i := 0; i < count; i++ {
		code, err := s.freshCode()
		if err != nil {
			return codes, err
		}
		row := model.QRCode{
			Code:       code,
			ImageURL:   qr.ImageURL(s.publicBase, code),
			BatchMonth: month,
			BatchYear:  year,
		}
		if err := s.db.Create(&row).Error; err != nil {
			return codes, err
		}
		codes = append(codes, row)
	}
	return codes, nil
}

// freshCode draws codes until one misses the unique index. Collisions on an
// 8-char alphabet of 56 symbols are vanishingly rare, so a handful of retries
// is plenty.
func (s *inventoryService) freshCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code, err := gonanoid.Generate(codeAlphabet, codeLength)
		if err != nil {
			return "", err
		}
		var n int64
		if err := s.db.Model(&model.QRCode{}).Where("code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique code")
}

// Allocate reserves one unactivated, unreserved code per purchased unit for
// the given order, oldest rows first. It is idempotent: an order that already
// holds reservations is left untouched. The whole reservation runs in one
// transaction, so inventory exhaustion part-way through releases everything
// claimed so far.
func (s *inventoryService) Allocate(orderID uint) ([]model.QRCode, error) {
	var order model.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing []model.QRCode
	if err := s.db.Where("order_id = ?", orderID).Order("id asc").Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	needed := 0
	for _, it := range order.Items {
		needed += it.Quantity
	}
	if needed == 0 {
		return nil, fmt.Errorf("%w: order %d has no items", ErrValidation, orderID)
	}

	var allocated []model.QRCode
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < needed; i++ {
			c, err := claimOldest(tx, orderID)
			if err != nil {
				return err
			}
			allocated = append(allocated, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return allocated, nil
}

// claimOldest picks the oldest available row and claims it with a conditional
// update keyed on the row still being free. Losing the update race to a
// concurrent allocation just means moving on to the next candidate.
func claimOldest(tx *gorm.DB, orderID uint) (*model.QRCode, error) {
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		var c model.QRCode
		err := tx.Where("is_activated = ? AND order_id IS NULL", false).
			Order("created_at asc, id asc").
			First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryExhausted
		}
		if err != nil {
			return nil, err
		}
		res := tx.Model(&model.QRCode{}).
			Where("id = ? AND order_id IS NULL AND is_activated = ?", c.ID, false).
			Update("order_id", orderID)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			c.OrderID = &orderID
			return &c, nil
		}
		// someone else took this row, try the next oldest
	}
	return nil, fmt.Errorf("gave up claiming a code after %d contended attempts", maxClaimAttempts)
}

func (s *inventoryService) Health() (InventoryHealth, error) {
	h := InventoryHealth{Threshold: s.threshold}
	counts := []struct {
		dst   *int64
		where *gorm.DB
	}{
		{&h.Available, s.db.Model(&model.QRCode{}).Where("is_activated = ? AND order_id IS NULL", false)},
		{&h.Assigned, s.db.Model(&model.QRCode{}).Where("is_activated = ? AND order_id IS NOT NULL", false)},
		{&h.Activated, s.db.Model(&model.QRCode{}).Where("is_activated = ?", true)},
		{&h.Total, s.db.Model(&model.QRCode{})},
	}
	for _, c := range counts {
		if err := c.where.Count(c.dst).Error; err != nil {
			return InventoryHealth{}, err
		}
	}
	h.NeedsMore = h.Available < s.threshold
	return h, nil
}

func (s *inventoryService) ListCodes(filter string, page, limit int) ([]model.QRCode, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := s.db.Model(&model.QRCode{})
	switch filter {
	case "", "all":
	case "available":
		q = q.Where("is_activated = ? AND order_id IS NULL", false)
	case "assigned":
		q = q.Where("is_activated = ? AND order_id IS NOT NULL", false)
	case "activated":
		q = q.Where("is_activated = ?", true)
	default:
		return nil, 0, fmt.Errorf("%w: unknown filter %q", ErrValidation, filter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.QRCode
	err := q.Order("id desc").Offset((page - 1) * limit).Limit(limit).Find(&rows).Error
	return rows, total, err
}
