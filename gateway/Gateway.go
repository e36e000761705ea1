package gateway

import "context"

// CreateOrderRequest carries everything the gateway needs to open an order.
// Amount is in minor units (paise).
type CreateOrderRequest struct {
	Amount int64

	Currency string

	Receipt string

	Notes map[string]string
}

type Order struct {
	OrderId string

	Amount int64

	Currency string
}

// Client is the outbound port to the payment gateway. The production
// implementation talks to Razorpay; tests substitute a fake.
type Client interface {
	CreateOrder(ctx context.Context, request *CreateOrderRequest) (*Order, error)
}
