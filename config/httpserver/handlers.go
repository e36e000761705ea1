package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/apsdehal/go-logger"
	"github.com/kirana-labs/paybridge/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	//Set by the authenticating proxy in front of this service
	authUidHeader   = "X-Auth-Uid"
	authEmailHeader = "X-Auth-Email"

	signatureHeader = "X-Razorpay-Signature"

	maxWebhookBody = 1 << 20
)

// Handler wires HTTP routes to the payment service.
type Handler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

func NewHandler(paymentService service.PaymentService, log *logger.Logger) *Handler {
	return &Handler{paymentService: paymentService, logger: log}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/payments/order", h.handleInitiateOrder)
	mux.HandleFunc("POST /v1/payments/webhook/razorpay", h.handleRazorpayWebhook)
	mux.HandleFunc("GET /health", h.handleHealth)
}

type initiateOrderRequest struct {
	TransactionId string `json:"transactionId"`
}

type errorBody struct {
	Error struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (h *Handler) handleInitiateOrder(w http.ResponseWriter, r *http.Request) {
	caller := callerIdentity(r)

	request := &initiateOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		writeRpcError(w, status.Error(codes.InvalidArgument, "Invalid request body!"))
		return
	}

	resp, err := h.paymentService.InitiateOrder(r.Context(), caller, request.TransactionId)
	if err != nil {
		writeRpcError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRazorpayWebhook responds with status codes only: the gateway retries
// on 5xx, gives up on 2xx/4xx. The body text is informational.
func (h *Handler) handleRazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	result, err := h.paymentService.ConfirmPayment(r.Context(), body, r.Header.Get(signatureHeader))

	switch {
	case errors.Is(err, service.ErrMissingSignature),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrMalformedPayload):
		http.Error(w, "bad request", http.StatusBadRequest)
	case err != nil:
		h.logger.Errorf("[WEBHOOK] unexpected failure : %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(result.Outcome))
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func callerIdentity(r *http.Request) *service.Identity {
	uid := r.Header.Get(authUidHeader)
	email := r.Header.Get(authEmailHeader)
	if uid == "" && email == "" {
		return nil
	}
	return &service.Identity{Uid: uid, Email: email}
}

// writeRpcError maps canonical codes onto HTTP statuses, callable style.
func writeRpcError(w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok {
		st = status.New(codes.Internal, "internal error")
	}

	httpStatus := http.StatusInternalServerError
	switch st.Code() {
	case codes.InvalidArgument, codes.FailedPrecondition:
		httpStatus = http.StatusBadRequest
	case codes.Unauthenticated:
		httpStatus = http.StatusUnauthorized
	case codes.PermissionDenied:
		httpStatus = http.StatusForbidden
	case codes.NotFound:
		httpStatus = http.StatusNotFound
	}

	body := errorBody{}
	body.Error.Status = st.Code().String()
	body.Error.Message = st.Message()
	writeJSON(w, httpStatus, body)
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
