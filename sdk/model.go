package sdk

type OrderRequest struct {
	TransactionId string `json:"transactionId"`
}

// OrderResponse mirrors the order initiator's RPC response. Amount is in
// minor units and KeyId opens the checkout widget client-side.
type OrderResponse struct {
	OrderId string `json:"orderId"`

	Amount int64 `json:"amount"`

	Currency string `json:"currency"`

	KeyId string `json:"keyId"`
}

// RpcError is the decoded error body of a failed RPC call.
type RpcError struct {
	Status string

	Message string

	HttpStatus int
}

func (e *RpcError) Error() string {
	return e.Status + ": " + e.Message
}
