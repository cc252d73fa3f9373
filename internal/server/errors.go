package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	expensedomain "github.com/smallbiznis/opsboard/internal/expense/domain"
	invoicedomain "github.com/smallbiznis/opsboard/internal/invoice/domain"
	overviewdomain "github.com/smallbiznis/opsboard/internal/overview/domain"
	productdomain "github.com/smallbiznis/opsboard/internal/product/domain"
	shipmentdomain "github.com/smallbiznis/opsboard/internal/shipment/domain"
	"github.com/smallbiznis/opsboard/pkg/db"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: validationErrorMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case db.IsDuplicateKeyErr(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidMarket),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, expensedomain.ErrInvalidName),
		errors.Is(err, expensedomain.ErrInvalidAmount),
		errors.Is(err, shipmentdomain.ErrInvalidSupplier),
		errors.Is(err, shipmentdomain.ErrInvalidMethod),
		errors.Is(err, shipmentdomain.ErrInvalidStatus),
		errors.Is(err, shipmentdomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidPartner),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, overviewdomain.ErrInvalidPeriod):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, shipmentdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorMessage(err error) string {
	code := err.Error()
	if field := strings.TrimPrefix(code, "invalid_"); field != code && field != "request" {
		return "invalid " + field
	}
	return "invalid request"
}
