package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/issouf7507-dev/codeqr-sub001/internal/model"
)

const reviewURL = "https://g.page/r/CXz1234567890/review"

type activationFixture struct {
	db         *gorm.DB
	activation ActivationService
	code       model.QRCode
}

func newActivationFixture(t *testing.T) *activationFixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	auth := NewAuthService(db, &mockEmail{})
	activation := NewActivationService(db, auth, testBase, "operator@codeqr.example")

	inventory := NewInventoryService(db, testBase, 50)
	codes, err := inventory.GenerateBatch(1, 2026, 3)
	require.NoError(t, err)

	return &activationFixture{db: db, activation: activation, code: codes[0]}
}

func TestValidReviewURL(t *testing.T) {
	valid := []string{
		"https://g.page/r/abc/review",
		"https://maps.app.goo.gl/xyz",
		"https://www.google.com/maps/place/Chez+Jean",
		"https://maps.google.com/?cid=123",
		"https://search.google.com/local/writereview?placeid=abc",
	}
	for _, u := range valid {
		assert.True(t, ValidReviewURL(u), u)
	}

	invalid := []string{
		"https://example.com/review",
		"http://g.page/r/abc", // not https
		"https://goo.gl/maps/xyz",
		"",
	}
	for _, u := range invalid {
		assert.False(t, ValidReviewURL(u), u)
	}
}

func TestActivate_NewAccount(t *testing.T) {
	f := newActivationFixture(t)

	res, err := f.activation.Activate(f.code.ID, reviewURL, "new@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotZero(t, res.UserID)
	assert.NotZero(t, res.LinkID)
	assert.NotEmpty(t, res.Token)

	var c model.QRCode
	require.NoError(t, f.db.First(&c, f.code.ID).Error)
	assert.True(t, c.IsActivated)
	require.NotNil(t, c.UserID)
	require.NotNil(t, c.LinkID)
	assert.Equal(t, res.UserID, *c.UserID)
	assert.Equal(t, res.LinkID, *c.LinkID)
	assert.NotNil(t, c.ActivatedAt)
	assert.Equal(t, f.code.ImageURL, c.ImageURL, "activation must not touch the printed image")

	var link model.Link
	require.NoError(t, f.db.First(&link, res.LinkID).Error)
	assert.Equal(t, reviewURL, link.GoogleReviewURL)
}

func TestActivate_ExistingAccountNeedsCorrectPassword(t *testing.T) {
	f := newActivationFixture(t)

	hash, _ := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	user := model.User{Email: "owner@example.com", PasswordHash: string(hash)}
	require.NoError(t, f.db.Create(&user).Error)

	_, err := f.activation.Activate(f.code.ID, reviewURL, "owner@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	var c model.QRCode
	require.NoError(t, f.db.First(&c, f.code.ID).Error)
	assert.False(t, c.IsActivated, "failed auth must bind nothing")

	res, err := f.activation.Activate(f.code.ID, reviewURL, "owner@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.UserID)
}

func TestActivate_IsOneWay(t *testing.T) {
	f := newActivationFixture(t)

	res, err := f.activation.Activate(f.code.ID, reviewURL, "a@example.com", "password-a1")
	require.NoError(t, err)

	_, err = f.activation.Activate(f.code.ID, "https://g.page/r/other/review", "b@example.com", "password-b1")
	require.ErrorIs(t, err, ErrAlreadyActivated)

	// still bound to the first user and link, and no stray second link
	var c model.QRCode
	require.NoError(t, f.db.First(&c, f.code.ID).Error)
	assert.Equal(t, res.UserID, *c.UserID)
	assert.Equal(t, res.LinkID, *c.LinkID)
}

func TestActivate_BadURLAndUnknownCode(t *testing.T) {
	f := newActivationFixture(t)

	_, err := f.activation.Activate(f.code.ID, "https://example.com/not-google", "a@example.com", "password-a1")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.activation.Activate(99999, reviewURL, "a@example.com", "password-a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssistedActivate_UsesOperatorAccount(t *testing.T) {
	f := newActivationFixture(t)

	res, err := f.activation.AssistedActivate(f.code.ID, reviewURL)
	require.NoError(t, err)

	var op model.User
	require.NoError(t, f.db.Where("email = ?", "operator@codeqr.example").First(&op).Error)
	assert.Equal(t, op.ID, res.UserID)
	assert.NotEmpty(t, res.Token)
}

func TestResolve_RedirectTargets(t *testing.T) {
	f := newActivationFixture(t)

	// unactivated: activation page for the same code
	target, err := f.activation.Resolve(f.code.Code)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(target, "/qr/"+f.code.Code+"/activation"), target)

	_, err = f.activation.Activate(f.code.ID, reviewURL, "a@example.com", "password-a1")
	require.NoError(t, err)

	// activated: exactly the bound review URL
	target, err = f.activation.Resolve(f.code.Code)
	require.NoError(t, err)
	assert.Equal(t, reviewURL, target)

	_, err = f.activation.Resolve("NOPE1234")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDescribe(t *testing.T) {
	f := newActivationFixture(t)

	info, err := f.activation.Describe(f.code.Code)
	require.NoError(t, err)
	assert.Equal(t, f.code.Code, info.Code)
	assert.False(t, info.IsActivated)

	_, err = f.activation.Describe("missing1")
	assert.ErrorIs(t, err, ErrNotFound)
}
