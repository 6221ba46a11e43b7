package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

type DashboardHTTP struct {
	S service.DashboardService
}

func NewDashboardHTTP(s service.DashboardService) *DashboardHTTP { return &DashboardHTTP{S: s} }

func (h *DashboardHTTP) Codes(c *gin.Context) {
	uid := c.GetUint("userID")
	codes, err := h.S.ListUserCodes(uid)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *DashboardHTTP) UpdateLink(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}
	var req struct {
		GoogleReviewURL string `json:"googleReviewUrl" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	uid := c.GetUint("userID")
	link, err := h.S.UpdateLink(uid, uint(id), req.GoogleReviewURL)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}
