package store

import (
	"context"
	"errors"
	"time"

	"github.com/kirana-labs/paybridge/model"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("no transaction exist!")

	// ErrGuardFailed means the conditional update matched no row: the
	// transaction left AWAITING_PAYMENT between read and write.
	ErrGuardFailed = errors.New("transaction no longer awaiting payment")
)

// TransactionStore is the port to the transaction records. All writes are
// partial-field conditional updates, never full rewrites.
type TransactionStore interface {
	GetByTransactionId(ctx context.Context, transactionId string) (*model.Transaction, error)

	FindByRazorpayOrderId(ctx context.Context, orderId string) (*model.Transaction, error)

	// AttachRazorpayOrder records the gateway order id on a transaction that
	// is still awaiting payment.
	AttachRazorpayOrder(ctx context.Context, transactionId string, orderId string) error

	// MarkPaid performs the guard-and-transition as a single conditional
	// update: AWAITING_PAYMENT -> AWAITING_SHIPMENT plus payment fields.
	// Returns ErrGuardFailed when the status guard no longer holds.
	MarkPaid(ctx context.Context, orderId string, paymentId string, paidAt time.Time) error
}

type gormTransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) TransactionStore {
	return &gormTransactionStore{db: db}
}

func (s *gormTransactionStore) GetByTransactionId(ctx context.Context, transactionId string) (*model.Transaction, error) {
	//Struct conditions drop zero values, an empty key would match any row
	if transactionId == "" {
		return nil, ErrTransactionNotFound
	}

	trx := &model.Transaction{}
	res := s.db.WithContext(ctx).Where(&model.Transaction{TransactionId: transactionId}).First(trx)

	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	} else if res.Error != nil {
		return nil, res.Error
	}

	return trx, nil
}

func (s *gormTransactionStore) FindByRazorpayOrderId(ctx context.Context, orderId string) (*model.Transaction, error) {
	if orderId == "" {
		return nil, ErrTransactionNotFound
	}

	trx := &model.Transaction{}
	res := s.db.WithContext(ctx).Where(&model.Transaction{RazorpayOrderId: orderId}).First(trx)

	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	} else if res.Error != nil {
		return nil, res.Error
	}

	return trx, nil
}

func (s *gormTransactionStore) AttachRazorpayOrder(ctx context.Context, transactionId string, orderId string) error {
	res := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("transaction_id = ? AND trx_status = ?", transactionId, model.TRX_AWAITING_PAYMENT).
		Update("razorpay_order_id", orderId)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}

func (s *gormTransactionStore) MarkPaid(ctx context.Context, orderId string, paymentId string, paidAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("razorpay_order_id = ? AND trx_status = ?", orderId, model.TRX_AWAITING_PAYMENT).
		Updates(map[string]interface{}{
			"trx_status":          model.TRX_AWAITING_SHIPMENT,
			"razorpay_payment_id": paymentId,
			"payment_confirmed":   true,
			"paid_at":             paidAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrGuardFailed
	}
	return nil
}
