package delivery

import (
	"errors"
	"net/http"
	"strings"

	"shop_service/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// mapErrorToStatus resolves the error taxonomy to an HTTP status. Typed
// errors are checked first; the string fallback covers plain validation
// errors from the usecases.
func mapErrorToStatus(err error) int {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusConflict
	}
	if errors.Is(err, domain.ErrInvalidQuery) {
		return http.StatusBadRequest
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "not found") {
		return http.StatusNotFound
	}
	if strings.Contains(errMsg, "invalid") || strings.Contains(errMsg, "cannot be empty") ||
		strings.Contains(errMsg, "must be positive") || strings.Contains(errMsg, "cannot be negative") ||
		strings.Contains(errMsg, "at least one item") {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// errorMessage hides store diagnostics from the caller; everything else in
// the taxonomy is user-correctable and surfaced as is.
func errorMessage(err error) string {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return "service temporarily unavailable, please retry"
	}
	return err.Error()
}
