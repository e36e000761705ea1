package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apsdehal/go-logger"
	razorpay "github.com/razorpay/razorpay-go"
)

var ErrGatewayTimeout = errors.New("gateway order create timed out")

// RazorpayClient implements Client against the Razorpay Orders API.
type RazorpayClient struct {
	api     *razorpay.Client
	timeout time.Duration
	logger  *logger.Logger
}

func NewRazorpayClient(keyId string, keySecret string, timeout time.Duration, log *logger.Logger) *RazorpayClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayClient{
		api:     razorpay.NewClient(keyId, keySecret),
		timeout: timeout,
		logger:  log,
	}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, request *CreateOrderRequest) (*Order, error) {
	notes := map[string]interface{}{}
	for k, v := range request.Notes {
		notes[k] = v
	}

	data := map[string]interface{}{
		"amount":   request.Amount,
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    notes,
	}

	type orderResult struct {
		body map[string]interface{}
		err  error
	}

	//The SDK has no context support, bound the call ourselves
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resultChan := make(chan orderResult, 1)
	go func() {
		body, err := c.api.Order.Create(data, nil)
		resultChan <- orderResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		c.logger.Errorf("[GATEWAY] order create timed out, receipt : %s", request.Receipt)
		return nil, ErrGatewayTimeout
	case res := <-resultChan:
		if res.err != nil {
			c.logger.Errorf("[GATEWAY] order create failed : %s", res.err)
			return nil, res.err
		}
		return parseOrder(res.body)
	}
}

func parseOrder(body map[string]interface{}) (*Order, error) {
	orderId, ok := body["id"].(string)
	if !ok || orderId == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}

	order := &Order{OrderId: orderId}

	//Razorpay echoes amount back as a JSON number
	switch amount := body["amount"].(type) {
	case float64:
		order.Amount = int64(amount)
	case int64:
		order.Amount = amount
	}
	if currency, ok := body["currency"].(string); ok {
		order.Currency = currency
	}

	return order, nil
}
