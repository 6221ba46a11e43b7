package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/issouf7507-dev/codeqr-sub001/internal/service"
)

const (
	sessionCookie = "session"
	adminCookie   = "admin_session"
)

// AuthRequired accepts a Bearer header or the session cookie and puts the
// userID in the gin context.
func AuthRequired(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tok string
		if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
			tok = strings.TrimPrefix(ah, "Bearer ")
		}
		if tok == "" {
			if v, err := c.Cookie(sessionCookie); err == nil {
				tok = v
			}
		}
		if tok == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "login required"})
			return
		}
		uid, err := auth.ParseToken(tok)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid session"})
			return
		}
		c.Set("userID", uid)
		c.Next()
	}
}

// AdminRequired only reads the admin cookie namespace; a regular user token
// never passes because the typ claim differs.
func AdminRequired(admin service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(adminCookie)
		if err != nil || tok == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "admin login required"})
			return
		}
		id, err := admin.ParseToken(tok)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid admin session"})
			return
		}
		c.Set("adminID", id)
		c.Next()
	}
}
