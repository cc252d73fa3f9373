package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListHistory(c *gin.Context) {
	entries, err := s.historyRepo.FindAll(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
