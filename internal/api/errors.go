package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"everskills/coaching-app/internal/service"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptyPostIt),
		errors.Is(err, service.ErrProgramEmpty),
		errors.Is(err, service.ErrRoleNotAllowed):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRequestNotFound),
		errors.Is(err, service.ErrCampaignNotFound),
		errors.Is(err, service.ErrCoachNotFound),
		errors.Is(err, service.ErrWeekNotFound),
		errors.Is(err, service.ErrActionNotFound),
		errors.Is(err, service.ErrSupportNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrCampaignExists),
		errors.Is(err, service.ErrCampaignClosed),
		errors.Is(err, service.ErrCampaignNotActive),
		errors.Is(err, service.ErrWeekClosed),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are logged and
// hidden from the client.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, code, "An unexpected error occurred")
		return
	}
	abortWithError(c, code, err.Error())
}

// weekParam reads the :week path parameter.
func weekParam(c *gin.Context) (int, bool) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil || week < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid week number")
		return 0, false
	}
	return week, true
}
