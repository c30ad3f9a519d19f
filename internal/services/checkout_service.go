package services

import (
	"context"
	"errors"
	"fmt"
	"food_ordering/internal/locker"
	"food_ordering/internal/models"
	"food_ordering/internal/repository"

	"github.com/rs/zerolog"
)

// CheckoutService turns a customer's pending cart lines into placed orders.
type CheckoutService interface {
	// PlaceOrder snapshots every pending line into a placed order and then
	// confirms those lines. On ErrPartialCheckout the returned orders exist
	// and CompleteCheckout finishes the job. On ErrStoreUnavailable the
	// outcome is unknown; re-read the cart before retrying.
	PlaceOrder(ctx context.Context, customerID uint, deliveryType models.DeliveryType) ([]models.PlacedOrder, error)
	// CompleteCheckout confirms pending lines that already have a placed
	// order. It returns how many lines moved and is safe to repeat.
	CompleteCheckout(ctx context.Context, customerID uint) (int64, error)
	ListOrders(ctx context.Context, customerID uint) ([]models.PlacedOrder, error)
}

type checkoutService struct {
	cartLineRepo    repository.CartLineRepository
	placedOrderRepo repository.PlacedOrderRepository
	locks           locker.Locker
	log             zerolog.Logger
}

func NewCheckoutService(cartLineRepo repository.CartLineRepository, placedOrderRepo repository.PlacedOrderRepository, locks locker.Locker, log zerolog.Logger) CheckoutService {
	return &checkoutService{
		cartLineRepo:    cartLineRepo,
		placedOrderRepo: placedOrderRepo,
		locks:           locks,
		log:             log.With().Str("component", "checkout").Logger(),
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, customerID uint, deliveryType models.DeliveryType) ([]models.PlacedOrder, error) {
	if !deliveryType.Valid() {
		return nil, fmt.Errorf("place order: %w: %q", ErrInvalidDeliveryType, deliveryType)
	}

	unlock, err := s.locks.Lock(ctx, locker.CustomerKey(customerID))
	if err != nil {
		return nil, fmt.Errorf("place order: lock cart %d: %w: %w", customerID, ErrStoreUnavailable, err)
	}
	defer unlock()

	// The lines read here are the whole scope of this checkout.
	lines, err := s.cartLineRepo.GetUnorderedPending(ctx, customerID)
	if err != nil {
		return nil, storeError("place order", err)
	}
	if len(lines) == 0 {
		return nil, s.emptyCart(ctx, customerID)
	}

	orders := make([]*models.PlacedOrder, 0, len(lines))
	for _, line := range lines {
		orders = append(orders, &models.PlacedOrder{
			CartLineID:   line.ID,
			CustomerID:   customerID,
			TotalAmount:  line.TotalPrice,
			DeliveryType: string(deliveryType),
			OrderStatus:  string(models.OrderPending),
		})
	}

	if err := s.placedOrderRepo.CreateBatch(ctx, orders); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Uint("customer_id", customerID).Msg("checkout outcome unknown")
			return nil, fmt.Errorf("place order: %w: %w", ErrStoreUnavailable, err)
		}
		s.log.Error().Err(err).Uint("customer_id", customerID).Int("lines", len(lines)).Msg("checkout snapshot failed")
		return nil, fmt.Errorf("place order: %w: %v", ErrCheckoutFailed, err)
	}

	placed := make([]models.PlacedOrder, 0, len(orders))
	for _, o := range orders {
		placed = append(placed, *o)
	}

	confirmed, err := s.cartLineRepo.ConfirmOrdered(ctx, customerID)
	if err != nil {
		s.log.Error().Err(err).Uint("customer_id", customerID).Int("orders", len(placed)).Msg("checkout confirm failed")
		return placed, fmt.Errorf("place order: %w: %v", ErrPartialCheckout, err)
	}

	s.log.Info().
		Uint("customer_id", customerID).
		Int("orders", len(placed)).
		Int64("confirmed", confirmed).
		Str("delivery_type", string(deliveryType)).
		Msg("order placed")
	return placed, nil
}

// emptyCart tells a genuinely empty cart apart from one left behind by an
// earlier checkout whose confirm step failed.
func (s *checkoutService) emptyCart(ctx context.Context, customerID uint) error {
	stranded, err := s.cartLineRepo.CountOrderedPending(ctx, customerID)
	if err != nil {
		return storeError("place order", err)
	}
	if stranded > 0 {
		return fmt.Errorf("place order: %d lines awaiting confirmation: %w", stranded, ErrPartialCheckout)
	}
	return fmt.Errorf("place order: %w", ErrEmptyCart)
}

func (s *checkoutService) CompleteCheckout(ctx context.Context, customerID uint) (int64, error) {
	unlock, err := s.locks.Lock(ctx, locker.CustomerKey(customerID))
	if err != nil {
		return 0, fmt.Errorf("complete checkout: lock cart %d: %w: %w", customerID, ErrStoreUnavailable, err)
	}
	defer unlock()

	n, err := s.cartLineRepo.ConfirmOrdered(ctx, customerID)
	if err != nil {
		return 0, storeError("complete checkout", err)
	}
	if n > 0 {
		s.log.Info().Uint("customer_id", customerID).Int64("confirmed", n).Msg("checkout completed")
	}
	return n, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, customerID uint) ([]models.PlacedOrder, error) {
	orders, err := s.placedOrderRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		return nil, storeError("list orders", err)
	}
	return orders, nil
}
