package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	overviewdomain "github.com/smallbiznis/opsboard/internal/overview/domain"
)

func (s *Server) GetOverview(c *gin.Context) {
	period, err := overviewdomain.ParsePeriod(c.Query("period"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.overviewSvc.Aggregate(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
