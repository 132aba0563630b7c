package shared

import "context"

// PaymentVerifier is the payment collaborator; a nil error means the gateway
// vouches for the payment.
type PaymentVerifier interface {
	Verify(orderID, paymentID, signature string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
}
