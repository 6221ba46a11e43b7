package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
)

type CatalogService interface {
	List() ([]model.Product, error)
	Get(id uint) (model.Product, error)
	Create(p model.Product) (model.Product, error)
	Update(id uint, upd ProductUpdate) (model.Product, error)
}

// ProductUpdate carries the admin-editable fields; nil means "leave as is".
type ProductUpdate struct {
	Name        *string
	Description *string
	PriceCents  *int64
	Features    *string
	Active      *bool
}

type catalogService struct{ db *gorm.DB }

func NewCatalogService(db *gorm.DB) CatalogService { return &catalogService{db: db} }

func (s *catalogService) List() ([]model.Product, error) {
	var ps []model.Product
	return ps, s.db.Where("active = ?", true).Order("id asc").Find(&ps).Error
}

func (s *catalogService) Get(id uint) (model.Product, error) {
	var p model.Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, err
	}
	return p, nil
}

func (s *catalogService) Create(p model.Product) (model.Product, error) {
	if p.Name == "" || p.PriceCents <= 0 {
		return model.Product{}, fmt.Errorf("%w: name and a positive price are required", ErrValidation)
	}
	if err := s.db.Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (s *catalogService) Update(id uint, upd ProductUpdate) (model.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return model.Product{}, err
	}
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.PriceCents != nil {
		if *upd.PriceCents <= 0 {
			return model.Product{}, fmt.Errorf("%w: price must be positive", ErrValidation)
		}
		fields["price_cents"] = *upd.PriceCents
	}
	if upd.Features != nil {
		fields["features"] = *upd.Features
	}
	if upd.Active != nil {
		fields["active"] = *upd.Active
	}
	if len(fields) == 0 {
		return p, nil
	}
	if err := s.db.Model(&p).Updates(fields).Error; err != nil {
		return model.Product{}, err
	}
	return s.Get(id)
}
