package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"mentor-booking/internal/pkg/errs"
)

var ErrInvalidSignature = errs.New("payment signature mismatch")

// HMACVerifier checks the gateway's callback signature: hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return errs.Mark(ErrInvalidSignature, errs.ErrPaymentNotVerified)
	}
	expected := v.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return errs.Mark(ErrInvalidSignature, errs.ErrPaymentNotVerified)
	}
	return nil
}

func (v *HMACVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
