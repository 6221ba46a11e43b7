package service

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
)

type AuthService interface {
	Register(email, password string) (string, error) // returns session JWT
	Login(email, password string) (string, error)
	ParseToken(token string) (uint, error) // returns userID
	IssueToken(userID uint) (string, error)
	Me(userID uint) (model.User, error)
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type authService struct {
	db    *gorm.DB
	email EmailSender
}

func NewAuthService(db *gorm.DB, email EmailSender) AuthService {
	return &authService{db: db, email: email}
}

func jwtSecret() []byte { return []byte(os.Getenv("JWT_SECRET")) }

func publicBase() string {
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

const resetTokenTTL = time.Hour

func (a *authService) Register(email, password string) (string, error) {
	if email == "" || len(password) < 8 {
		return "", fmt.Errorf("%w: email and a password of at least 8 characters are required", ErrValidation)
	}
	var existed model.User
	err := a.db.Where("email = ?", email).First(&existed).Error
	if err == nil {
		return "", fmt.Errorf("%w: email already registered", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	u := model.User{Email: email, PasswordHash: string(hash)}
	if err := a.db.Create(&u).Error; err != nil {
		return "", err
	}
	return a.IssueToken(u.ID)
}

func (a *authService) Login(email, password string) (string, error) {
	var u model.User
	if err := a.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.IssueToken(u.ID)
}

func (a *authService) IssueToken(userID uint) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"typ": "session",
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	return t.SignedString(jwtSecret())
}

func (a *authService) ParseToken(token string) (uint, error) {
	return parseTyped(token, "session")
}

func (a *authService) Me(userID uint) (model.User, error) {
	var u model.User
	if err := a.db.First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// RequestReset is silent on unknown emails so the endpoint cannot be used to
// enumerate accounts. Issuing a new token replaces any previous one.
func (a *authService) RequestReset(email string) error {
	var u model.User
	if err := a.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	token := uuid.NewString()
	expiry := time.Now().Add(resetTokenTTL)
	if err := a.db.Model(&u).Updates(map[string]any{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}).Error; err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", publicBase(), url.QueryEscape(token))
	return a.email.SendPasswordReset(u.Email, link)
}

func (a *authService) ResetPassword(token, newPassword string) error {
	if token == "" || len(newPassword) < 8 {
		return fmt.Errorf("%w: token and a password of at least 8 characters are required", ErrValidation)
	}
	var u model.User
	err := a.db.Where("reset_token = ? AND reset_token_expiry > ?", token, time.Now()).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", ErrValidation)
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return a.db.Model(&u).Updates(map[string]any{
		"password_hash":      string(hash),
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}).Error
}

func parseTyped(token, typ string) (uint, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil {
		return 0, err
	}
	if claims["typ"] != typ {
		return 0, errors.New("invalid token type")
	}
	idFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid sub")
	}
	return uint(idFloat), nil
}
