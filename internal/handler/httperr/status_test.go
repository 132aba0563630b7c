//go:build unit

package httperr_test

import (
	"errors"
	"net/http"
	"testing"

	"mentor-booking/internal/handler/httperr"
	"mentor-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "payment", err: errs.Mark(errs.New("signature mismatch"), errs.ErrPaymentNotVerified), wantStatus: http.StatusPaymentRequired, wantMsg: "Payment could not be verified"},
		{name: "validation keeps its message", err: errs.Mark(errs.New("end time must be after start time"), errs.ErrValidation), wantStatus: http.StatusBadRequest, wantMsg: "end time must be after start time"},
		{name: "slot conflict", err: errs.Wrap(errs.Mark(errs.New("overlap"), errs.ErrSlotConflict), "reserve"), wantStatus: http.StatusConflict, wantMsg: "slot no longer available"},
		{name: "already confirmed", err: errs.ErrAlreadyConfirmed, wantStatus: http.StatusConflict, wantMsg: "Reservation already confirmed"},
		{name: "invalid transition", err: errs.ErrInvalidTransition, wantStatus: http.StatusConflict, wantMsg: "Reservation can no longer be confirmed"},
		{name: "expired", err: errs.ErrExpired, wantStatus: http.StatusGone, wantMsg: "Reservation expired"},
		{name: "not found keeps its message", err: errs.Mark(errs.New("mentor not found"), errs.ErrNotFound), wantStatus: http.StatusNotFound, wantMsg: "mentor not found"},
		{name: "unauthorized hides detail", err: errs.Mark(errs.New("not your session"), errs.ErrUnauthorized), wantStatus: http.StatusForbidden, wantMsg: "Forbidden"},
		{name: "anything else", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantMsg: "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := httperr.StatusOf(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}
