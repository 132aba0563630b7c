package httperr

import (
	"net/http"

	"mentor-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// StatusOf maps a use case error onto its HTTP status and public message.
// Unauthorized here means an authenticated caller touching something it does not own.
func StatusOf(err error) (int, string) {
	switch {
	case errs.Is(err, errs.ErrPaymentNotVerified):
		return http.StatusPaymentRequired, "Payment could not be verified"
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errs.Is(err, errs.ErrSlotConflict):
		return http.StatusConflict, "slot no longer available"
	case errs.Is(err, errs.ErrAlreadyConfirmed):
		return http.StatusConflict, "Reservation already confirmed"
	case errs.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, "Reservation can no longer be confirmed"
	case errs.Is(err, errs.ErrExpired):
		return http.StatusGone, "Reservation expired"
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errs.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden, "Forbidden"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func AbortWithUseCaseError(c *gin.Context, err error) {
	status, msg := StatusOf(err)
	AbortWithError(c, status, err, msg, nil)
}
