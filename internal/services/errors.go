package services

import (
	"context"
	"errors"
	"fmt"
	"food_ordering/internal/repository"
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotFound            = errors.New("not found")
	ErrItemUnavailable     = errors.New("item unavailable")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidDeliveryType = errors.New("invalid delivery type")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrCheckoutFailed      = errors.New("checkout failed")
	ErrPartialCheckout     = errors.New("orders placed but cart lines not confirmed")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Retryable reports whether the caller may retry the failed operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrPartialCheckout)
}

// storeError classifies a repository failure for op.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
