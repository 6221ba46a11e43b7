package service

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
)

type DashboardService interface {
	ListUserCodes(userID uint) ([]model.QRCode, error)
	UpdateLink(userID, linkID uint, reviewURL string) (model.Link, error)
}

type dashboardService struct{ db *gorm.DB }

func NewDashboardService(db *gorm.DB) DashboardService { return &dashboardService{db: db} }

func (s *dashboardService) ListUserCodes(userID uint) ([]model.QRCode, error) {
	var codes []model.QRCode
	err := s.db.Preload("Link").
		Where("user_id = ?", userID).
		Order("activated_at desc").
		Find(&codes).Error
	return codes, err
}

// UpdateLink repoints a link's review URL. The owner check lives in the WHERE
// clause, so a foreign linkID simply looks like not-found.
func (s *dashboardService) UpdateLink(userID, linkID uint, reviewURL string) (model.Link, error) {
	if !ValidReviewURL(reviewURL) {
		return model.Link{}, fmt.Errorf("%w: not an accepted Google review URL", ErrValidation)
	}
	res := s.db.Model(&model.Link{}).
		Where("id = ? AND user_id = ?", linkID, userID).
		Update("google_review_url", reviewURL)
	if res.Error != nil {
		return model.Link{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Link{}, fmt.Errorf("%w: link %d", ErrNotFound, linkID)
	}
	var link model.Link
	if err := s.db.First(&link, linkID).Error; err != nil {
		return model.Link{}, err
	}
	return link, nil
}
