//go:build unit

package payment_test

import (
	"strings"
	"testing"

	"mentor-booking/internal/infra/payment"
	"mentor-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestHMACVerifier(t *testing.T) {
	v := payment.NewHMACVerifier("secret")
	valid := v.Sign("order_1", "pay_1")

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		wantErr   bool
	}{
		{"valid signature", "order_1", "pay_1", valid, false},
		{"upper-case hex accepted", "order_1", "pay_1", strings.ToUpper(valid), false},
		{"different payment", "order_1", "pay_2", valid, true},
		{"different order", "order_2", "pay_1", valid, true},
		{"empty signature", "order_1", "pay_1", "", true},
		{"signed with another secret", "order_1", "pay_1", payment.NewHMACVerifier("other").Sign("order_1", "pay_1"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.orderID, tt.paymentID, tt.signature)
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrPaymentNotVerified))
				return
			}
			assert.NoError(t, err)
		})
	}
}
