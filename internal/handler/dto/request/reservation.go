package request

import (
	"time"

	"mentor-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	MentorID    uuid.UUID `json:"mentorId" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	StartTime   string    `json:"startTime" binding:"required"`
	EndTime     string    `json:"endTime" binding:"required"`
	MeetingType string    `json:"meetingType" binding:"required,oneof=chat video call"`
	// PriceCents is optional; the hourly rate applies when omitted.
	PriceCents *int64 `json:"priceCents,omitempty" binding:"omitempty,min=0"`
	TTLMinutes *int   `json:"ttlMinutes,omitempty" binding:"omitempty,min=1"`
}

func (r *CreateReservationRequest) ToParams(menteeID uuid.UUID) commands.ReserveParams {
	p := commands.ReserveParams{
		MentorID:    r.MentorID,
		MenteeID:    menteeID,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MeetingType: r.MeetingType,
		PriceCents:  r.PriceCents,
	}
	if r.TTLMinutes != nil {
		p.TTL = time.Duration(*r.TTLMinutes) * time.Minute
	}
	return p
}

type ConfirmReservationRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (r *ConfirmReservationRequest) ToParams(reservationID, requesterID uuid.UUID) commands.ConfirmParams {
	return commands.ConfirmParams{
		ReservationID: reservationID,
		RequesterID:   requesterID,
		OrderID:       r.OrderID,
		PaymentID:     r.PaymentID,
		Signature:     r.Signature,
	}
}

type AvailabilityQuery struct {
	Date      string `form:"date" binding:"required"`
	StartTime string `form:"startTime" binding:"required"`
	EndTime   string `form:"endTime" binding:"required"`
}

type ListReservationsQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit"`
}
