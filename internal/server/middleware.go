package server

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenRequired enforces bearer auth when API_TOKEN is configured. With no
// token configured the API is open; identity is managed upstream.
func (s *Server) TokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.APIToken == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.APIToken)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}
