package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/apsdehal/go-logger"
	"github.com/kirana-labs/paybridge/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// --- Mock payment service ---

type mockPaymentService struct {
	caller        *service.Identity
	transactionId string
	orderResp     *service.OrderInitResponse
	orderErr      error

	body       []byte
	signature  string
	result     *service.WebhookResult
	webhookErr error
}

func (m *mockPaymentService) InitiateOrder(_ context.Context, caller *service.Identity, transactionId string) (*service.OrderInitResponse, error) {
	m.caller = caller
	m.transactionId = transactionId
	return m.orderResp, m.orderErr
}

func (m *mockPaymentService) ConfirmPayment(_ context.Context, body []byte, signature string) (*service.WebhookResult, error) {
	m.body = body
	m.signature = signature
	return m.result, m.webhookErr
}

func newTestServer(mock *mockPaymentService) *httptest.Server {
	log, _ := logger.New("TEST", 1, os.Stdout)
	mux := http.NewServeMux()
	NewHandler(mock, log).RegisterRoutes(mux)
	return httptest.NewServer(mux)
}

func postOrder(t *testing.T, server *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/payments/order", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

// --- Order RPC ---

func TestInitiateOrderStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "no"), http.StatusUnauthorized, "Unauthenticated"},
		{"invalid argument", status.Error(codes.InvalidArgument, "no"), http.StatusBadRequest, "InvalidArgument"},
		{"not found", status.Error(codes.NotFound, "no"), http.StatusNotFound, "NotFound"},
		{"permission denied", status.Error(codes.PermissionDenied, "no"), http.StatusForbidden, "PermissionDenied"},
		{"failed precondition", status.Error(codes.FailedPrecondition, "no"), http.StatusBadRequest, "FailedPrecondition"},
		{"internal", status.Error(codes.Internal, "no"), http.StatusInternalServerError, "Internal"},
		{"untyped error", errors.New("boom"), http.StatusInternalServerError, "Internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(&mockPaymentService{orderErr: tc.err})
			defer server.Close()

			resp := postOrder(t, server, `{"transactionId":"t1"}`, nil)
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			var body struct {
				Error struct {
					Status  string `json:"status"`
					Message string `json:"message"`
				} `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Status != tc.wantCode {
				t.Errorf("error status = %q, want %q", body.Error.Status, tc.wantCode)
			}
		})
	}
}

func TestInitiateOrderUntypedErrorMasked(t *testing.T) {
	server := newTestServer(&mockPaymentService{orderErr: errors.New("db credentials rejected for host 10.0.3.7")})
	defer server.Close()

	resp := postOrder(t, server, `{"transactionId":"t1"}`, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body struct {
		Error struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Status != "Internal" || body.Error.Message != "internal error" {
		t.Errorf("untyped errors must be rewritten to a generic Internal, got %+v", body.Error)
	}
}

func TestInitiateOrderSuccessResponse(t *testing.T) {
	mock := &mockPaymentService{orderResp: &service.OrderInitResponse{
		OrderId:  "order_abc",
		Amount:   25000,
		Currency: "INR",
		KeyId:    "rzp_test_key",
	}}
	server := newTestServer(mock)
	defer server.Close()

	resp := postOrder(t, server, `{"transactionId":"t1"}`, map[string]string{
		"X-Auth-Uid":   "u1",
		"X-Auth-Email": "a@x.com",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body service.OrderInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.OrderId != "order_abc" || body.Amount != 25000 || body.Currency != "INR" || body.KeyId != "rzp_test_key" {
		t.Errorf("unexpected body: %+v", body)
	}

	if mock.caller == nil || mock.caller.Uid != "u1" || mock.caller.Email != "a@x.com" {
		t.Errorf("identity not passed through: %+v", mock.caller)
	}
	if mock.transactionId != "t1" {
		t.Errorf("transaction id = %q, want t1", mock.transactionId)
	}
}

func TestInitiateOrderWithoutAuthHeaders(t *testing.T) {
	mock := &mockPaymentService{orderErr: status.Error(codes.Unauthenticated, "no")}
	server := newTestServer(mock)
	defer server.Close()

	resp := postOrder(t, server, `{"transactionId":"t1"}`, nil)
	resp.Body.Close()

	if mock.caller != nil {
		t.Errorf("expected nil identity without auth headers, got %+v", mock.caller)
	}
}

func TestInitiateOrderBadBody(t *testing.T) {
	server := newTestServer(&mockPaymentService{})
	defer server.Close()

	resp := postOrder(t, server, `{not json`, nil)
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// --- Webhook ---

func postWebhook(t *testing.T, server *httptest.Server, body []byte, signature string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/payments/webhook/razorpay", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestWebhookStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		result     *service.WebhookResult
		err        error
		wantStatus int
	}{
		{"missing signature", nil, service.ErrMissingSignature, http.StatusBadRequest},
		{"invalid signature", nil, service.ErrInvalidSignature, http.StatusBadRequest},
		{"malformed payload", nil, service.ErrMalformedPayload, http.StatusBadRequest},
		{"store failure", nil, errors.New("db gone"), http.StatusInternalServerError},
		{"captured", &service.WebhookResult{Outcome: service.WEBHOOK_CAPTURED}, nil, http.StatusOK},
		{"ignored no-op still acknowledged", &service.WebhookResult{Outcome: service.WEBHOOK_UNKNOWN_ORDER}, nil, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(&mockPaymentService{result: tc.result, webhookErr: tc.err})
			defer server.Close()

			resp := postWebhook(t, server, []byte(`{}`), "sig")
			resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
		})
	}
}

func TestWebhookPassesRawBytesAndSignature(t *testing.T) {
	mock := &mockPaymentService{result: &service.WebhookResult{Outcome: service.WEBHOOK_CAPTURED}}
	server := newTestServer(mock)
	defer server.Close()

	// raw layout matters: the handler must hand the exact bytes through
	raw := []byte(`{ "event" :  "payment.captured" }`)
	resp := postWebhook(t, server, raw, "sig-123")
	resp.Body.Close()

	if !bytes.Equal(mock.body, raw) {
		t.Errorf("body altered before verification: %q", mock.body)
	}
	if mock.signature != "sig-123" {
		t.Errorf("signature = %q, want sig-123", mock.signature)
	}
}
