package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirana-labs/paybridge/gateway"
)

func TestInitiateOrderSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/order" || r.Method != http.MethodPost {
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Auth-Uid") != "u1" || r.Header.Get("X-Auth-Email") != "a@x.com" {
			t.Errorf("identity headers missing: %v", r.Header)
		}

		request := &OrderRequest{}
		if err := json.NewDecoder(r.Body).Decode(request); err != nil || request.TransactionId != "t1" {
			t.Errorf("bad request body: %+v err=%v", request, err)
		}

		json.NewEncoder(w).Encode(&OrderResponse{
			OrderId:  "order_abc",
			Amount:   25000,
			Currency: "INR",
			KeyId:    "rzp_test_key",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "u1", "a@x.com")
	order, err := client.InitiateOrder(context.Background(), "t1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderId != "order_abc" || order.Amount != 25000 || order.KeyId != "rzp_test_key" {
		t.Errorf("unexpected order: %+v", order)
	}
}

func TestInitiateOrderRpcError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"status":"PermissionDenied","message":"Caller is not the buyer of this transaction!"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "u1", "mallory@x.com")
	_, err := client.InitiateOrder(context.Background(), "t1")

	rpcErr := &RpcError{}
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RpcError, got %v", err)
	}
	if rpcErr.Status != "PermissionDenied" || rpcErr.HttpStatus != http.StatusForbidden {
		t.Errorf("unexpected error: %+v", rpcErr)
	}
}

func TestVerifyCheckoutSignature(t *testing.T) {
	secret := "key-secret"
	sig := gateway.ComputeCheckoutSignature("order_1", "pay_1", secret)

	if !VerifyCheckoutSignature("order_1", "pay_1", sig, secret) {
		t.Error("valid checkout signature should verify")
	}
	if VerifyCheckoutSignature("order_1", "pay_2", sig, secret) {
		t.Error("signature for another payment must not verify")
	}
	if VerifyCheckoutSignature("order_1", "pay_1", sig, "other") {
		t.Error("wrong secret must not verify")
	}
	if VerifyCheckoutSignature("order_1", "pay_1", "", secret) {
		t.Error("empty signature must not verify")
	}
}
