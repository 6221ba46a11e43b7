package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

type AuthHTTP struct {
	S service.AuthService
}

func NewAuthHTTP(s service.AuthService) *AuthHTTP { return &AuthHTTP{S: s} }

func setSessionCookie(c *gin.Context, name, token string, maxAge int) {
	c.SetCookie(name, token, maxAge, "/", "", true, true)
}

func (h *AuthHTTP) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tok, err := h.S.Register(req.Email, req.Password)
	if err != nil {
		abortErr(c, err)
		return
	}
	setSessionCookie(c, sessionCookie, tok, 7*24*3600)
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": tok, "token_type": "Bearer"})
}

func (h *AuthHTTP) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tok, err := h.S.Login(req.Email, req.Password)
	if err != nil {
		abortErr(c, err)
		return
	}
	setSessionCookie(c, sessionCookie, tok, 7*24*3600)
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": tok, "token_type": "Bearer"})
}

func (h *AuthHTTP) Logout(c *gin.Context) {
	setSessionCookie(c, sessionCookie, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHTTP) Me(c *gin.Context) {
	uid := c.GetUint("userID")
	u, err := h.S.Me(uid)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
}

// ForgotPassword answers 200 whether or not the email exists, so the endpoint
// cannot be used to probe for accounts.
func (h *AuthHTTP) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.S.RequestReset(req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send reset email"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHTTP) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.S.ResetPassword(req.Token, req.Password); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
