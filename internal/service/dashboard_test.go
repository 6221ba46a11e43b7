package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_ListAndUpdateLink(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)
	auth := NewAuthService(db, &mockEmail{})
	activation := NewActivationService(db, auth, testBase, "")
	inventory := NewInventoryService(db, testBase, 50)
	dashboard := NewDashboardService(db)

	codes, err := inventory.GenerateBatch(1, 2026, 2)
	require.NoError(t, err)

	res, err := activation.Activate(codes[0].ID, reviewURL, "owner@example.com", "password-123")
	require.NoError(t, err)

	mine, err := dashboard.ListUserCodes(res.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, codes[0].Code, mine[0].Code)
	require.NotNil(t, mine[0].Link)
	assert.Equal(t, reviewURL, mine[0].Link.GoogleReviewURL)

	// owner can repoint the link
	newURL := "https://maps.app.goo.gl/AbCdEf123"
	link, err := dashboard.UpdateLink(res.UserID, res.LinkID, newURL)
	require.NoError(t, err)
	assert.Equal(t, newURL, link.GoogleReviewURL)

	// and the public redirect follows immediately
	target, err := activation.Resolve(codes[0].Code)
	require.NoError(t, err)
	assert.Equal(t, newURL, target)

	// a stranger cannot
	_, err = dashboard.UpdateLink(res.UserID+1, res.LinkID, newURL)
	assert.ErrorIs(t, err, ErrNotFound)

	// and junk URLs are rejected
	_, err = dashboard.UpdateLink(res.UserID, res.LinkID, "https://example.com/x")
	assert.ErrorIs(t, err, ErrValidation)
}
