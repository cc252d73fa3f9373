package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	shipmentdomain "github.com/smallbiznis/opsboard/internal/shipment/domain"
)

func (s *Server) CreateShipment(c *gin.Context) {
	var req shipmentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.shipmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListShipments(c *gin.Context) {
	resp, err := s.shipmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateShipmentStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req struct {
		Status shipmentdomain.Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.shipmentSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
