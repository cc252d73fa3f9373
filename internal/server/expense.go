package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/smallbiznis/opsboard/internal/expense/domain"
)

func (s *Server) CreateExpense(c *gin.Context) {
	var req expensedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.expenseSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListExpenses(c *gin.Context) {
	resp, err := s.expenseSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
