package request

import "mentor-booking/internal/usecase/commands"

// PushSubscriptionRequest mirrors the browser PushSubscription.toJSON() shape.
type PushSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

func (r *PushSubscriptionRequest) ToParams() commands.PushSubscriptionParams {
	return commands.PushSubscriptionParams{
		Endpoint: r.Endpoint,
		P256dh:   r.Keys.P256dh,
		Auth:     r.Keys.Auth,
	}
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}
