package response

import (
	"time"

	"mentor-booking/internal/usecase/queries"
)

type ReservationResponse struct {
	ID          string     `json:"id"`
	MentorID    string     `json:"mentorId"`
	MentorEmail string     `json:"mentorEmail"`
	MenteeID    string     `json:"menteeId"`
	MenteeEmail string     `json:"menteeEmail"`
	Date        string     `json:"date"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	MeetingType string     `json:"meetingType"`
	Status      string     `json:"status"`
	PriceCents  int64      `json:"priceCents"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	PaymentID   *string    `json:"paymentId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:          v.ID.String(),
		MentorID:    v.MentorID.String(),
		MentorEmail: v.MentorEmail,
		MenteeID:    v.MenteeID.String(),
		MenteeEmail: v.MenteeEmail,
		Date:        v.Date,
		StartTime:   v.StartTime,
		EndTime:     v.EndTime,
		MeetingType: v.MeetingType,
		Status:      v.Status,
		PriceCents:  v.PriceCents,
		ExpiresAt:   v.ReservationExpires,
		PaymentID:   v.PaymentID,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

func FromReservationList(views []*queries.ReservationView, next *queries.Cursor) *ReservationListResponse {
	items := make([]*ReservationResponse, len(views))
	for i, v := range views {
		items[i] = FromReservationView(v)
	}
	res := &ReservationListResponse{Items: items}
	if next != nil {
		res.NextCursor = next.After
	}
	return res
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}
