package api

import (
	"errors"
	"net/http"

	"khmerdownload-api/internal/khqr"
	"khmerdownload-api/internal/response"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
)

// fail maps service errors onto HTTP statuses. Messages stay specific:
// the purchaser needs to know whether to retry or abandon.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateBillNumber):
		status = http.StatusConflict
	case errors.Is(err, khqr.ErrInvalidAmount),
		errors.Is(err, khqr.ErrUnsupportedCurrency),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrNotPurchasable),
		errors.Is(err, services.ErrInvalidCode):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrPaymentRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, services.ErrRateLimited):
		status = http.StatusTooManyRequests
	}
	response.ErrorJSON(c, status, err.Error())
}
