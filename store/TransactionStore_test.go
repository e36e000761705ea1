package store

import (
	"context"
	"errors"
	"testing"
)

// The adapter builds its lookups from struct conditions, which silently drop
// zero-value fields. Empty keys must short-circuit before any query runs
// (which is also why a nil DB suffices here).
func TestLookupsRejectEmptyKeys(t *testing.T) {
	s := NewTransactionStore(nil)

	if _, err := s.GetByTransactionId(context.Background(), ""); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("GetByTransactionId(\"\") = %v, want ErrTransactionNotFound", err)
	}
	if _, err := s.FindByRazorpayOrderId(context.Background(), ""); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("FindByRazorpayOrderId(\"\") = %v, want ErrTransactionNotFound", err)
	}
}
