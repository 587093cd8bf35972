package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tunadex/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrPayloadNotFound):
		return http.StatusNotFound, "PAYLOAD_NOT_FOUND", "no payload exists for this date"
	case errors.Is(err, domain.ErrMissingCustomer),
		errors.Is(err, domain.ErrMissingSpecies),
		errors.Is(err, domain.ErrNegativeBoxes),
		errors.Is(err, domain.ErrNegativeWeight),
		errors.Is(err, domain.ErrEmptyAWB):
		return http.StatusBadRequest, "INVALID_SHIPMENT", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// parseDateParam parses the :date path parameter as YYYY-MM-DD.
func parseDateParam(c *gin.Context, name string) (domain.Date, bool) {
	raw := c.Param(name)
	date, err := domain.ParseDate(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		return domain.Date{}, false
	}
	return date, true
}
