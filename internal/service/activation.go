package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
	"github.com/issouf7507-dev/codeqr-sub001/internal/qr"
)

// googleReviewPrefixes are the accepted targets for a plaque. Anything else
// is rejected before any write happens.
var googleReviewPrefixes = []string{
	"https://g.page/",
	"https://maps.app.goo.gl/",
	"https://maps.google.com",
	"https://www.google.com/maps",
	"https://google.com/maps",
	"https://search.google.com/local/writereview",
}

func ValidReviewURL(u string) bool {
	for _, p := range googleReviewPrefixes {
		if strings.HasPrefix(u, p) {
			return true
		}
	}
	return false
}

type ActivationService interface {
	Activate(codeID uint, reviewURL, email, password string) (ActivationResult, error)
	AssistedActivate(codeID uint, reviewURL string) (ActivationResult, error)
	Resolve(code string) (string, error)
	Describe(code string) (CodeInfo, error)
}

type ActivationResult struct {
	UserID uint   `json:"userId"`
	LinkID uint   `json:"linkId"`
	Token  string `json:"-"` // session for the resolved account, set as cookie
}

type CodeInfo struct {
	Code        string `json:"code"`
	IsActivated bool   `json:"isActivated"`
}

type activationService struct {
	db            *gorm.DB
	auth          AuthService
	publicBase    string
	operatorEmail string
}

func NewActivationService(db *gorm.DB, auth AuthService, publicBase, operatorEmail string) ActivationService {
	return &activationService{db: db, auth: auth, publicBase: publicBase, operatorEmail: operatorEmail}
}

// Activate performs the one-time binding of a code to an account and a review
// URL. For a known email the supplied password must match — an unverified
// password here would let anyone attach codes to someone else's account.
func (s *activationService) Activate(codeID uint, reviewURL, email, password string) (ActivationResult, error) {
	if !ValidReviewURL(reviewURL) {
		return ActivationResult{}, fmt.Errorf("%w: not an accepted Google review URL", ErrValidation)
	}
	if email == "" || password == "" {
		return ActivationResult{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.resolveAccount(email, password)
	if err != nil {
		return ActivationResult{}, err
	}
	return s.bind(codeID, reviewURL, user)
}

// AssistedActivate binds a code on behalf of a customer through the shop's
// operator account.
func (s *activationService) AssistedActivate(codeID uint, reviewURL string) (ActivationResult, error) {
	if !ValidReviewURL(reviewURL) {
		return ActivationResult{}, fmt.Errorf("%w: not an accepted Google review URL", ErrValidation)
	}
	if s.operatorEmail == "" {
		return ActivationResult{}, fmt.Errorf("%w: no operator account configured", ErrValidation)
	}

	var op model.User
	err := s.db.Where("email = ?", s.operatorEmail).First(&op).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ActivationResult{}, err
		}
		// first assisted activation bootstraps the operator account with an
		// unusable password hash; operators log in via password reset
		op = model.User{Email: s.operatorEmail, PasswordHash: "!"}
		if err := s.db.Create(&op).Error; err != nil {
			return ActivationResult{}, err
		}
	}
	return s.bind(codeID, reviewURL, op)
}

func (s *activationService) resolveAccount(email, password string) (model.User, error) {
	var u model.User
	err := s.db.Where("email = ?", email).First(&u).Error
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return model.User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, err
	}
	if len(password) < 8 {
		return model.User{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}
	u = model.User{Email: email, PasswordHash: string(hash)}
	if err := s.db.Create(&u).Error; err != nil {
		return model.User{}, err
	}
	return u, nil
}

// bind creates the fresh link and flips the code in one transaction. The
// conditional update on is_activated makes double activation lose cleanly:
// the second caller affects zero rows and the transaction rolls its link back.
func (s *activationService) bind(codeID uint, reviewURL string, user model.User) (ActivationResult, error) {
	var c model.QRCode
	if err := s.db.First(&c, codeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActivationResult{}, fmt.Errorf("%w: code %d", ErrNotFound, codeID)
		}
		return ActivationResult{}, err
	}
	if c.IsActivated {
		return ActivationResult{}, ErrAlreadyActivated
	}

	var link model.Link
	err := s.db.Transaction(func(tx *gorm.DB) error {
		link = model.Link{UserID: user.ID, GoogleReviewURL: reviewURL}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		now := time.Now()
		res := tx.Model(&model.QRCode{}).
			Where("id = ? AND is_activated = ?", codeID, false).
			Updates(map[string]any{
				"is_activated": true,
				"user_id":      user.ID,
				"link_id":      link.ID,
				"activated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyActivated
		}
		return nil
	})
	if err != nil {
		return ActivationResult{}, err
	}

	token, err := s.auth.IssueToken(user.ID)
	if err != nil {
		return ActivationResult{}, err
	}
	return ActivationResult{UserID: user.ID, LinkID: link.ID, Token: token}, nil
}

// Resolve is the public redirect: an activated code goes to its review URL,
// anything else goes to the activation page for the same code. Pure read.
func (s *activationService) Resolve(code string) (string, error) {
	var c model.QRCode
	if err := s.db.Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: code %s", ErrNotFound, code)
		}
		return "", err
	}
	if c.IsActivated && c.LinkID != nil {
		var link model.Link
		if err := s.db.First(&link, *c.LinkID).Error; err == nil && link.GoogleReviewURL != "" {
			return link.GoogleReviewURL, nil
		}
	}
	return qr.ActivationURL(s.publicBase, c.Code), nil
}

func (s *activationService) Describe(code string) (CodeInfo, error) {
	var c model.QRCode
	if err := s.db.Where("code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CodeInfo{}, fmt.Errorf("%w: code %s", ErrNotFound, code)
		}
		return CodeInfo{}, err
	}
	return CodeInfo{Code: c.Code, IsActivated: c.IsActivated}, nil
}
