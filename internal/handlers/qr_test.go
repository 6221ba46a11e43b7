package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

// mockActivation implements service.ActivationService for testing.
type mockActivation struct {
	targets   map[string]string // code -> redirect target
	activated map[string]bool
	result    service.ActivationResult
	err       error
}

func (m *mockActivation) Activate(codeID uint, reviewURL, email, password string) (service.ActivationResult, error) {
	return m.result, m.err
}

func (m *mockActivation) AssistedActivate(codeID uint, reviewURL string) (service.ActivationResult, error) {
	return m.result, m.err
}

func (m *mockActivation) Resolve(code string) (string, error) {
	if t, ok := m.targets[code]; ok {
		return t, nil
	}
	return "", service.ErrNotFound
}

func (m *mockActivation) Describe(code string) (service.CodeInfo, error) {
	if _, ok := m.targets[code]; !ok {
		return service.CodeInfo{}, service.ErrNotFound
	}
	return service.CodeInfo{Code: code, IsActivated: m.activated[code]}, nil
}

func newQRRouter(m *mockActivation) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewQRHTTP(m)
	r.GET("/qr/:code", h.Redirect)
	r.GET("/api/qr/:code", h.Describe)
	r.POST("/api/qr/activate", h.Activate)
	return r
}

func TestRedirect_ActivatedCode(t *testing.T) {
	m := &mockActivation{targets: map[string]string{
		"Abc12345": "https://g.page/r/xyz/review",
	}}
	r := newQRRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr/Abc12345", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://g.page/r/xyz/review", w.Header().Get("Location"))
}

func TestRedirect_UnknownCode(t *testing.T) {
	r := newQRRouter(&mockActivation{targets: map[string]string{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr/NOPE9999", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDescribe(t *testing.T) {
	m := &mockActivation{
		targets:   map[string]string{"Abc12345": "x"},
		activated: map[string]bool{"Abc12345": true},
	}
	r := newQRRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/qr/Abc12345", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":"Abc12345","isActivated":true}`, w.Body.String())
}

func TestActivate_SetsSessionCookie(t *testing.T) {
	m := &mockActivation{result: service.ActivationResult{UserID: 7, LinkID: 3, Token: "tok123"}}
	r := newQRRouter(m)

	body := `{"codeId":1,"googleReviewUrl":"https://g.page/r/xyz/review","email":"a@example.com","password":"password-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/qr/activate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "tok123", cookies[0].Value)
}

func TestActivate_Conflict(t *testing.T) {
	m := &mockActivation{err: service.ErrAlreadyActivated}
	r := newQRRouter(m)

	body := `{"codeId":1,"googleReviewUrl":"https://g.page/r/xyz/review","email":"a@example.com","password":"password-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/qr/activate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestActivate_RejectsMissingFields(t *testing.T) {
	r := newQRRouter(&mockActivation{})

	req := httptest.NewRequest(http.MethodPost, "/api/qr/activate", strings.NewReader(`{"codeId":1}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
