package model

import "time"

// PaymentCapturedEvent is the payload published to Kafka after a transaction
// transitions to AWAITING_SHIPMENT.
type PaymentCapturedEvent struct {
	TransactionId string `json:"transaction_id"`

	RazorpayOrderId string `json:"razorpay_order_id"`

	RazorpayPaymentId string `json:"razorpay_payment_id"`

	AmountMinor int64 `json:"amount_minor"`

	Currency string `json:"currency"`

	PaidAt time.Time `json:"paid_at"`
}
