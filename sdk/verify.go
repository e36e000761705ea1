package sdk

import (
	"crypto/hmac"

	"github.com/kirana-labs/paybridge/gateway"
)

// VerifyCheckoutSignature checks the signature the checkout widget hands the
// frontend after a successful payment (HMAC over "order_id|payment_id" under
// the gateway key secret). Backends should still wait for the webhook before
// treating the transaction as paid.
func VerifyCheckoutSignature(orderId string, paymentId string, signature string, keySecret string) bool {
	if signature == "" || keySecret == "" {
		return false
	}
	expected := gateway.ComputeCheckoutSignature(orderId, paymentId, keySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
