package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

type CatalogHTTP struct {
	S service.CatalogService
}

func NewCatalogHTTP(s service.CatalogService) *CatalogHTTP { return &CatalogHTTP{S: s} }

func (h *CatalogHTTP) List(c *gin.Context) {
	ps, err := h.S.List()
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *CatalogHTTP) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.S.Get(uint(id))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
