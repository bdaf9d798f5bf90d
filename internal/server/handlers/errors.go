package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herd-admin/internal/service/establishments"
	"github.com/mamadbah2/herd-admin/internal/service/reporting"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: http.StatusText(http.StatusBadRequest), Message: message})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, errorBody{Error: http.StatusText(status), Message: message})
}

func statusFor(err error) int {
	var (
		upstreamErr   *reporting.UpstreamError
		validationErr *establishments.ValidationError
	)
	switch {
	case errors.As(err, &upstreamErr), errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reporting.ErrUnknownReportType),
		errors.Is(err, establishments.ErrEstablishmentNotFound),
		errors.Is(err, establishments.ErrSubscriptionTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, establishments.ErrEstablishmentExists),
		errors.Is(err, establishments.ErrSubscriptionTypeExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
