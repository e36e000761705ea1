package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the paybridge payment RPC on behalf of an authenticated buyer.
// The identity headers are trusted only when the call goes through the
// authenticating proxy, so the client is meant for in-cluster callers.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	AuthUid    string
	AuthEmail  string
}

func NewClient(baseURL string, authUid string, authEmail string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		AuthUid:    authUid,
		AuthEmail:  authEmail,
	}
}

func (c *Client) InitiateOrder(ctx context.Context, transactionId string) (*OrderResponse, error) {
	payload, err := json.Marshal(&OrderRequest{TransactionId: transactionId})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/payments/order", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Uid", c.AuthUid)
	req.Header.Set("X-Auth-Email", c.AuthEmail)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeRpcError(resp)
	}

	order := &OrderResponse{}
	if err := json.NewDecoder(resp.Body).Decode(order); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	return order, nil
}

func decodeRpcError(resp *http.Response) error {
	var body struct {
		Error struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}

	rpcErr := &RpcError{HttpStatus: resp.StatusCode, Status: "Unknown"}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error.Status != "" {
		rpcErr.Status = body.Error.Status
		rpcErr.Message = body.Error.Message
	}
	return rpcErr
}
