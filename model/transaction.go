package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Transaction struct {
	gorm.Model

	TransactionId string `gorm:"column:transaction_id;uniqueIndex:idx_trx_id"`

	BuyerEmail string `gorm:"column:buyer_email"`

	SellerEmail string `gorm:"column:seller_email"`

	ItemDescription string `gorm:"column:item_description"`

	Amount decimal.Decimal `gorm:"column:amount;type:decimal(12,2)"`

	Currency string `gorm:"column:currency"`

	TransactionStatus TransactionStatus `gorm:"column:trx_status;index:idx_trx_status"`

	RazorpayOrderId string `gorm:"column:razorpay_order_id;index:idx_rzp_order_id"`

	RazorpayPaymentId string `gorm:"column:razorpay_payment_id"`

	PaymentConfirmed bool `gorm:"column:payment_confirmed"`

	PaidAt *time.Time `gorm:"column:paid_at"`
}

type TransactionStatus string

var (
	TRX_CREATED           TransactionStatus = "CREATED"
	TRX_AWAITING_PAYMENT  TransactionStatus = "AWAITING_PAYMENT"
	TRX_AWAITING_SHIPMENT TransactionStatus = "AWAITING_SHIPMENT"
	TRX_SHIPPED           TransactionStatus = "SHIPPED"
	TRX_COMPLETED         TransactionStatus = "COMPLETED"
	TRX_CANCELLED         TransactionStatus = "CANCELLED"
)

// AmountMinorUnits converts the major-unit amount to the gateway's minor-unit
// representation (paise for INR). Rounding is half away from zero, applied once.
func (t *Transaction) AmountMinorUnits() int64 {
	return t.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (t *Transaction) AwaitingPayment() bool {
	return t.TransactionStatus == TRX_AWAITING_PAYMENT
}
