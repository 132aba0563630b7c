package notification

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEndpoint = errors.New("push endpoint must be an absolute https URL")
	ErrInvalidKeys     = errors.New("push subscription keys p256dh and auth must be base64url encoded")
)

// PushSubscription is a browser Web Push registration.
type PushSubscription struct {
	id        uuid.UUID
	userID    uuid.UUID
	endpoint  string
	p256dh    string
	auth      string
	createdAt time.Time
}

func NewPushSubscription(userID uuid.UUID, endpoint, p256dh, auth string, now time.Time) (*PushSubscription, error) {
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}
	if !isBase64URL(p256dh) || !isBase64URL(auth) {
		return nil, ErrInvalidKeys
	}
	return &PushSubscription{
		id:        uuid.New(),
		userID:    userID,
		endpoint:  endpoint,
		p256dh:    p256dh,
		auth:      auth,
		createdAt: now,
	}, nil
}

func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return ErrInvalidEndpoint
	}
	return nil
}

func isBase64URL(s string) bool {
	if s == "" {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	return err == nil
}

func (p *PushSubscription) ID() uuid.UUID        { return p.id }
func (p *PushSubscription) UserID() uuid.UUID    { return p.userID }
func (p *PushSubscription) Endpoint() string     { return p.endpoint }
func (p *PushSubscription) P256dh() string       { return p.p256dh }
func (p *PushSubscription) Auth() string         { return p.auth }
func (p *PushSubscription) CreatedAt() time.Time { return p.createdAt }
