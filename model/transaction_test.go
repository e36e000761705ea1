package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountMinorUnits(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   int64
	}{
		{"whole rupees", "100.00", 10000},
		{"paise precision", "49.99", 4999},
		{"single paisa", "0.01", 1},
		{"large amount", "250.00", 25000},
		{"half paisa rounds away from zero", "0.005", 1},
		{"just below half paisa rounds down", "0.004", 0},
		{"three decimals rounds nearest", "10.994", 1099},
		{"three decimals rounds up", "10.995", 1100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			if err != nil {
				t.Fatalf("bad amount fixture %q: %v", tc.amount, err)
			}
			trx := &Transaction{Amount: amount}
			if got := trx.AmountMinorUnits(); got != tc.want {
				t.Errorf("AmountMinorUnits(%s) = %d, want %d", tc.amount, got, tc.want)
			}
		})
	}
}

func TestAwaitingPayment(t *testing.T) {
	for _, status := range []TransactionStatus{TRX_CREATED, TRX_AWAITING_SHIPMENT, TRX_SHIPPED, TRX_COMPLETED, TRX_CANCELLED} {
		trx := &Transaction{TransactionStatus: status}
		if trx.AwaitingPayment() {
			t.Errorf("AwaitingPayment() = true for status %s", status)
		}
	}
	trx := &Transaction{TransactionStatus: TRX_AWAITING_PAYMENT}
	if !trx.AwaitingPayment() {
		t.Error("AwaitingPayment() = false for AWAITING_PAYMENT")
	}
}
