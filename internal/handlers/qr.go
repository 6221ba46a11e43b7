package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

type QRHTTP struct {
	S service.ActivationService
}

func NewQRHTTP(s service.ActivationService) *QRHTTP { return &QRHTTP{S: s} }

// Redirect serves scanned plaques. No side effects: read, branch, 302.
func (h *QRHTTP) Redirect(c *gin.Context) {
	target, err := h.S.Resolve(c.Param("code"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Describe backs the activation page: the code's value and whether it is
// already bound.
func (h *QRHTTP) Describe(c *gin.Context) {
	info, err := h.S.Describe(c.Param("code"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

type activateReq struct {
	CodeID          uint   `json:"codeId" binding:"required"`
	GoogleReviewURL string `json:"googleReviewUrl" binding:"required,url"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	// Assisted activations come from the back office and bind to the
	// configured operator account instead of customer credentials.
	Assisted bool `json:"assisted"`
}

func (h *QRHTTP) Activate(c *gin.Context) {
	var req activateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var (
		res service.ActivationResult
		err error
	)
	if req.Assisted {
		res, err = h.S.AssistedActivate(req.CodeID, req.GoogleReviewURL)
	} else {
		res, err = h.S.Activate(req.CodeID, req.GoogleReviewURL, req.Email, req.Password)
	}
	if err != nil {
		abortErr(c, err)
		return
	}
	setSessionCookie(c, sessionCookie, res.Token, 7*24*3600)
	c.JSON(http.StatusOK, gin.H{"ok": true, "userId": res.UserID, "linkId": res.LinkID})
}
