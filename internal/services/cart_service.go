package services

import (
	"context"
	"errors"
	"fmt"
	"food_ordering/internal/locker"
	"food_ordering/internal/models"
	"food_ordering/internal/repository"

	"github.com/shopspring/decimal"
)

// CartService manages one customer's pending cart lines. Mutations for the
// same customer are applied one at a time, in the order they take the lock.
type CartService interface {
	ListPending(ctx context.Context, customerID uint) ([]models.CartLineView, error)
	AddLine(ctx context.Context, customerID, menuItemID uint, quantity int) (*models.CartLine, error)
	// ChangeQuantity sets a new quantity and re-prices the line. A quantity
	// below one deletes the line and reports removed.
	ChangeQuantity(ctx context.Context, customerID, lineID uint, quantity int, menuItemID uint) (line *models.CartLine, removed bool, err error)
	// DeleteLine removes a pending line. Deleting a line that is already
	// gone is not an error.
	DeleteLine(ctx context.Context, customerID, lineID uint) error
	Total(ctx context.Context, customerID uint) (decimal.Decimal, error)
}

type cartService struct {
	cartLineRepo repository.CartLineRepository
	catalog      CatalogService
	locks        locker.Locker
}

func NewCartService(cartLineRepo repository.CartLineRepository, catalog CatalogService, locks locker.Locker) CartService {
	return &cartService{cartLineRepo: cartLineRepo, catalog: catalog, locks: locks}
}

func (s *cartService) lock(ctx context.Context, customerID uint) (func(), error) {
	unlock, err := s.locks.Lock(ctx, locker.CustomerKey(customerID))
	if err != nil {
		return nil, fmt.Errorf("lock cart %d: %w: %w", customerID, ErrStoreUnavailable, err)
	}
	return unlock, nil
}

func (s *cartService) ListPending(ctx context.Context, customerID uint) ([]models.CartLineView, error) {
	lines, err := s.cartLineRepo.GetPendingByCustomer(ctx, customerID)
	if err != nil {
		return nil, storeError("list cart", err)
	}

	views := make([]models.CartLineView, 0, len(lines))
	if len(lines) == 0 {
		return views, nil
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}
	entries, err := s.catalog.GetEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		// a menu item removed from the catalog still leaves its line visible
		entry, ok := entries[line.MenuItemID]
		if !ok {
			entry = models.MenuEntry{MenuItemID: line.MenuItemID}
		}
		views = append(views, models.CartLineView{CartLine: line, Item: entry})
	}
	return views, nil
}

func (s *cartService) AddLine(ctx context.Context, customerID, menuItemID uint, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("add line: %w: %d", ErrInvalidQuantity, quantity)
	}

	unlock, err := s.lock(ctx, customerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	entry, err := s.catalog.GetEntry(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	if !entry.Available {
		return nil, fmt.Errorf("add line: %w: %s", ErrItemUnavailable, entry.Name)
	}

	line := &models.CartLine{
		CustomerID: customerID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
		TotalPrice: models.LineTotal(entry.Price, quantity),
		Status:     string(models.CartLinePending),
	}
	if err := s.cartLineRepo.Create(ctx, line); err != nil {
		return nil, storeError("add line", err)
	}
	return line, nil
}

func (s *cartService) ChangeQuantity(ctx context.Context, customerID, lineID uint, quantity int, menuItemID uint) (*models.CartLine, bool, error) {
	unlock, err := s.lock(ctx, customerID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	if quantity < 1 {
		if err := s.deleteLine(ctx, customerID, lineID); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	line, err := s.cartLineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, false, storeError("change quantity", err)
	}
	if line.CustomerID != customerID || line.Status != string(models.CartLinePending) {
		return nil, false, fmt.Errorf("change quantity: line %d: %w", lineID, ErrNotFound)
	}
	if menuItemID == 0 {
		menuItemID = line.MenuItemID
	}
	if menuItemID != line.MenuItemID {
		return nil, false, fmt.Errorf("change quantity: menu item %d on line %d: %w", menuItemID, lineID, ErrNotFound)
	}

	// price is read again so the snapshot follows the current menu
	entry, err := s.catalog.GetEntry(ctx, menuItemID)
	if err != nil {
		return nil, false, err
	}
	total := models.LineTotal(entry.Price, quantity)

	if err := s.cartLineRepo.UpdateQuantity(ctx, customerID, lineID, quantity, total); err != nil {
		return nil, false, storeError("change quantity", err)
	}
	line.Quantity = quantity
	line.TotalPrice = total
	return line, false, nil
}

func (s *cartService) DeleteLine(ctx context.Context, customerID, lineID uint) error {
	unlock, err := s.lock(ctx, customerID)
	if err != nil {
		return err
	}
	defer unlock()

	return s.deleteLine(ctx, customerID, lineID)
}

func (s *cartService) deleteLine(ctx context.Context, customerID, lineID uint) error {
	err := s.cartLineRepo.Delete(ctx, customerID, lineID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storeError("delete line", err)
	}
	return nil
}

func (s *cartService) Total(ctx context.Context, customerID uint) (decimal.Decimal, error) {
	lines, err := s.cartLineRepo.GetPendingByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, storeError("cart total", err)
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.TotalPrice)
	}
	return total, nil
}
