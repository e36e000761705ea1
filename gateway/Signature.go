package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex HMAC-SHA256 of body under secret. The body
// must be the exact bytes as received on the wire; re-serialized JSON will not
// verify.
func ComputeSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the expected one in
// constant time.
func VerifySignature(body []byte, received string, secret string) bool {
	if received == "" || secret == "" {
		return false
	}
	expected := ComputeSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(received))
}

// ComputeCheckoutSignature signs the order/payment pair the way the gateway
// signs its checkout success callback.
func ComputeCheckoutSignature(orderId string, paymentId string, secret string) string {
	return ComputeSignature([]byte(orderId+"|"+paymentId), secret)
}
