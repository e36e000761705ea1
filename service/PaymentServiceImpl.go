package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apsdehal/go-logger"
	"github.com/hashicorp/go-uuid"
	"github.com/kirana-labs/paybridge/gateway"
	"github.com/kirana-labs/paybridge/model"
	"github.com/kirana-labs/paybridge/store"
	"github.com/openzipkin/zipkin-go"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	PAYMENT_CAPTURED_EVENT = "PAYBRIDGE_PAYMENT_CAPTURED"

	//Razorpay caps the receipt field at 40 characters
	maxReceiptLen = 40

	//Razorpay caps note values, keep the item description bounded
	maxItemNoteLen = 50
)

// Webhook handling outcomes. Everything except WEBHOOK_CAPTURED is a
// deliberate no-op acknowledged to the gateway.
const (
	WEBHOOK_CAPTURED        = "CAPTURED"
	WEBHOOK_IGNORED_EVENT   = "IGNORED_EVENT"
	WEBHOOK_UNKNOWN_ORDER   = "UNKNOWN_ORDER"
	WEBHOOK_ALREADY_HANDLED = "ALREADY_HANDLED"
	WEBHOOK_AMOUNT_MISMATCH = "AMOUNT_MISMATCH"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Identity is the verified caller identity supplied by the authentication
// layer. It is passed explicitly, never read from ambient context.
type Identity struct {
	Uid   string
	Email string
}

type OrderInitResponse struct {
	OrderId string `json:"orderId"`

	Amount int64 `json:"amount"`

	Currency string `json:"currency"`

	KeyId string `json:"keyId"`
}

type WebhookResult struct {
	Outcome string

	TransactionId string
}

type PaymentService interface {
	InitiateOrder(ctx context.Context, caller *Identity, transactionId string) (*OrderInitResponse, error)

	ConfirmPayment(ctx context.Context, body []byte, signature string) (*WebhookResult, error)
}

// Options carries the non-secret and secret gateway parameters the service
// needs. WebhookSecret is provisioned out of band.
type Options struct {
	KeyId string

	WebhookSecret string

	DefaultCurrency string
}

type paymentServiceImpl struct {
	trxStore  store.TransactionStore
	gateway   gateway.Client
	publisher EventPublisher
	logger    *logger.Logger
	tracer    *zipkin.Tracer
	opts      Options
}

func NewPaymentService(trxStore store.TransactionStore, gatewayClient gateway.Client, publisher EventPublisher, log *logger.Logger, tracer *zipkin.Tracer, opts Options) PaymentService {
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "INR"
	}
	return &paymentServiceImpl{
		trxStore:  trxStore,
		gateway:   gatewayClient,
		publisher: publisher,
		logger:    log,
		tracer:    tracer,
		opts:      opts,
	}
}

func (s *paymentServiceImpl) InitiateOrder(ctx context.Context, caller *Identity, transactionId string) (*OrderInitResponse, error) {
	if caller == nil || caller.Email == "" {
		return nil, status.Error(codes.Unauthenticated, "Authentication required!")
	}

	if transactionId == "" {
		return nil, status.Error(codes.InvalidArgument, "Fill transaction ID!")
	}

	trx, err := s.trxStore.GetByTransactionId(ctx, transactionId)

	if errors.Is(err, store.ErrTransactionNotFound) {
		return nil, status.Error(codes.NotFound, "no transaction exist!")
	} else if err != nil {
		s.logger.Errorf("[ORDER] failed to load transaction %s : %s", transactionId, err)
		return nil, status.Error(codes.Internal, "Error reading from db!")
	}

	if trx.BuyerEmail != caller.Email {
		return nil, status.Error(codes.PermissionDenied, "Caller is not the buyer of this transaction!")
	}

	if !trx.AwaitingPayment() {
		return nil, status.Errorf(codes.FailedPrecondition, "Transaction is %s, payment cannot be initiated!", trx.TransactionStatus)
	}

	if !trx.Amount.IsPositive() {
		return nil, status.Error(codes.FailedPrecondition, "Transaction amount must be positive!")
	}

	amountMinor := trx.AmountMinorUnits()
	currency := trx.Currency
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}

	//Re-invocation while an order already exists returns the same order
	if trx.RazorpayOrderId != "" {
		s.logger.Infof("[ORDER] transaction %s already carries order %s, returning existing", transactionId, trx.RazorpayOrderId)
		return &OrderInitResponse{
			OrderId:  trx.RazorpayOrderId,
			Amount:   amountMinor,
			Currency: currency,
			KeyId:    s.opts.KeyId,
		}, nil
	}

	span := s.startSpan(ctx, "razorpay order create")
	if span != nil {
		span.Tag("transaction_id", transactionId)
		defer span.Finish()
	}

	order, err := s.gateway.CreateOrder(ctx, &gateway.CreateOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  buildReceipt(transactionId),
		Notes: map[string]string{
			"transaction_id": transactionId,
			"buyer_email":    trx.BuyerEmail,
			"seller_email":   trx.SellerEmail,
			"item":           truncate(trx.ItemDescription, maxItemNoteLen),
		},
	})

	if err != nil {
		if span != nil {
			span.Tag(string(zipkin.TagError), fmt.Sprint(err))
		}
		s.logger.Errorf("[ORDER] gateway order create failed for %s : %s", transactionId, err)
		return nil, status.Error(codes.Internal, "Gateway order creation failed!")
	}

	if order.Amount != 0 && order.Amount != amountMinor {
		s.logger.Warningf("[ORDER] gateway echoed amount %d, expected %d for %s", order.Amount, amountMinor, transactionId)
	}

	err = s.trxStore.AttachRazorpayOrder(ctx, transactionId, order.OrderId)

	if errors.Is(err, store.ErrGuardFailed) {
		return nil, status.Error(codes.FailedPrecondition, "Transaction is no longer awaiting payment!")
	} else if err != nil {
		s.logger.Errorf("[ORDER] failed to attach order %s to %s : %s", order.OrderId, transactionId, err)
		return nil, status.Error(codes.Internal, "Error writing to db!")
	}

	ordersCreatedCounter.Inc()
	s.logger.Infof("[ORDER] created gateway order %s for transaction %s (%d %s)", order.OrderId, transactionId, amountMinor, currency)

	return &OrderInitResponse{
		OrderId:  order.OrderId,
		Amount:   amountMinor,
		Currency: currency,
		KeyId:    s.opts.KeyId,
	}, nil
}

// webhookEnvelope mirrors the gateway's event payload, only the fields the
// confirmer reads.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				Id       string `json:"id"`
				OrderId  string `json:"order_id"`
				Status   string `json:"status"`
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	if s.opts.WebhookSecret == "" || signature == "" {
		return nil, ErrMissingSignature
	}

	if !gateway.VerifySignature(body, signature, s.opts.WebhookSecret) {
		return nil, ErrInvalidSignature
	}

	envelope := &webhookEnvelope{}
	if err := json.Unmarshal(body, envelope); err != nil {
		return nil, ErrMalformedPayload
	}

	entity := envelope.Payload.Payment.Entity

	if envelope.Event != "payment.captured" || entity.Status != "captured" {
		webhookCounter.WithLabelValues(WEBHOOK_IGNORED_EVENT).Inc()
		s.logger.Debugf("[WEBHOOK] ignoring event %s (entity status %s)", envelope.Event, entity.Status)
		return &WebhookResult{Outcome: WEBHOOK_IGNORED_EVENT}, nil
	}

	if entity.OrderId == "" {
		return nil, ErrMalformedPayload
	}

	trx, err := s.trxStore.FindByRazorpayOrderId(ctx, entity.OrderId)

	if errors.Is(err, store.ErrTransactionNotFound) {
		//Acknowledge so the gateway does not retry a webhook that can
		//never resolve. Counted as a monitoring signal.
		webhookCounter.WithLabelValues(WEBHOOK_UNKNOWN_ORDER).Inc()
		s.logger.Warningf("[WEBHOOK] no transaction for order %s, acknowledging anyway", entity.OrderId)
		return &WebhookResult{Outcome: WEBHOOK_UNKNOWN_ORDER}, nil
	} else if err != nil {
		s.logger.Errorf("[WEBHOOK] failed to look up order %s : %s", entity.OrderId, err)
		return nil, err
	}

	if !trx.AwaitingPayment() {
		webhookCounter.WithLabelValues(WEBHOOK_ALREADY_HANDLED).Inc()
		s.logger.Infof("[WEBHOOK] transaction %s already %s, duplicate delivery", trx.TransactionId, trx.TransactionStatus)
		return &WebhookResult{Outcome: WEBHOOK_ALREADY_HANDLED, TransactionId: trx.TransactionId}, nil
	}

	if entity.Amount != trx.AmountMinorUnits() {
		webhookCounter.WithLabelValues(WEBHOOK_AMOUNT_MISMATCH).Inc()
		s.logger.Warningf("[WEBHOOK] captured amount %d does not match transaction %s amount %d, acknowledging without mutation",
			entity.Amount, trx.TransactionId, trx.AmountMinorUnits())
		return &WebhookResult{Outcome: WEBHOOK_AMOUNT_MISMATCH, TransactionId: trx.TransactionId}, nil
	}

	paidAt := time.Now().UTC()
	err = s.trxStore.MarkPaid(ctx, entity.OrderId, entity.Id, paidAt)

	if errors.Is(err, store.ErrGuardFailed) {
		//A concurrent duplicate delivery won the race, nothing left to do
		webhookCounter.WithLabelValues(WEBHOOK_ALREADY_HANDLED).Inc()
		return &WebhookResult{Outcome: WEBHOOK_ALREADY_HANDLED, TransactionId: trx.TransactionId}, nil
	} else if err != nil {
		s.logger.Errorf("[WEBHOOK] failed to mark %s paid : %s", trx.TransactionId, err)
		return nil, err
	}

	webhookCounter.WithLabelValues(WEBHOOK_CAPTURED).Inc()
	s.logger.Infof("[WEBHOOK] transaction %s paid, payment %s order %s", trx.TransactionId, entity.Id, entity.OrderId)

	s.publishCaptured(ctx, trx, entity.Id, paidAt)

	return &WebhookResult{Outcome: WEBHOOK_CAPTURED, TransactionId: trx.TransactionId}, nil
}

// publishCaptured is best effort: the webhook is already acknowledged-worthy,
// a broker outage must not make the gateway redeliver.
func (s *paymentServiceImpl) publishCaptured(ctx context.Context, trx *model.Transaction, paymentId string, paidAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := &model.PaymentCapturedEvent{
		TransactionId:     trx.TransactionId,
		RazorpayOrderId:   trx.RazorpayOrderId,
		RazorpayPaymentId: paymentId,
		AmountMinor:       trx.AmountMinorUnits(),
		Currency:          trx.Currency,
		PaidAt:            paidAt,
	}

	eventInfo, _ := json.Marshal(event)
	if err := s.publisher.Publish(ctx, PAYMENT_CAPTURED_EVENT, eventInfo); err != nil {
		s.logger.Errorf("[WEBHOOK] failed to publish capture event for %s : %s", trx.TransactionId, err)
	}
}

func (s *paymentServiceImpl) startSpan(ctx context.Context, name string) zipkin.Span {
	if s.tracer == nil {
		return nil
	}
	span, _ := s.tracer.StartSpanFromContext(ctx, name)
	return span
}

func buildReceipt(transactionId string) string {
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	if uniqId, err := uuid.GenerateUUID(); err == nil && len(uniqId) >= 8 {
		suffix = fmt.Sprintf("%d-%s", time.Now().Unix(), uniqId[:8])
	}
	receipt := transactionId + "-" + suffix
	if len(receipt) > maxReceiptLen {
		receipt = receipt[len(receipt)-maxReceiptLen:]
	}
	return receipt
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
