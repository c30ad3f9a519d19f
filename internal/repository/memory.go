package repository

import (
	"context"
	"food_ordering/internal/models"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MemoryStore keeps every table in process memory. It satisfies the same
// repository interfaces as the gorm implementations and is safe for
// concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    uint
	customers map[uint]*models.Customer
	recipes   map[uint]*models.Recipe
	menu      map[uint]*models.MenuItem
	lines     map[uint]*models.CartLine
	orders    map[uint]*models.PlacedOrder
	orderLine map[uint]uint // cart line id -> placed order id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[uint]*models.Customer),
		recipes:   make(map[uint]*models.Recipe),
		menu:      make(map[uint]*models.MenuItem),
		lines:     make(map[uint]*models.CartLine),
		orders:    make(map[uint]*models.PlacedOrder),
		orderLine: make(map[uint]uint),
	}
}

func (s *MemoryStore) Repositories() Repositories {
	return Repositories{
		Customers:    memoryCustomers{s},
		Menu:         memoryMenu{s},
		CartLines:    memoryCartLines{s},
		PlacedOrders: memoryPlacedOrders{s},
	}
}

// SetPrice changes a menu item's price in place.
func (s *MemoryStore) SetPrice(menuItemID uint, price decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menu[menuItemID]
	if !ok {
		return ErrNotFound
	}
	item.Price = price
	item.UpdatedAt = time.Now()
	return nil
}

// SetAvailable toggles a menu item's availability flag.
func (s *MemoryStore) SetAvailable(menuItemID uint, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menu[menuItemID]
	if !ok {
		return ErrNotFound
	}
	item.Available = available
	item.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) withRecipe(item models.MenuItem) models.MenuItem {
	if r, ok := s.recipes[item.RecipeID]; ok {
		item.Recipe = *r
	}
	return item
}

func (s *MemoryStore) hasOrder(lineID uint) bool {
	_, ok := s.orderLine[lineID]
	return ok
}

// pendingLines returns copies of the customer's pending lines in id order.
func (s *MemoryStore) pendingLines(customerID uint, keep func(*models.CartLine) bool) []models.CartLine {
	out := make([]models.CartLine, 0)
	for _, l := range s.lines {
		if l.CustomerID != customerID || l.Status != string(models.CartLinePending) {
			continue
		}
		if keep != nil && !keep(l) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memoryCustomers struct{ s *MemoryStore }

func (r memoryCustomers) Create(ctx context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.Username == customer.Username {
			return ErrDuplicate
		}
	}
	now := time.Now()
	customer.ID = r.s.id()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	cp := *customer
	r.s.customers[cp.ID] = &cp
	return nil
}

func (r memoryCustomers) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memoryCustomers) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.Username == username {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

type memoryMenu struct{ s *MemoryStore }

func (r memoryMenu) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	recipe.ID = r.s.id()
	recipe.CreatedAt = time.Now()
	cp := *recipe
	r.s.recipes[cp.ID] = &cp
	return nil
}

func (r memoryMenu) CreateItem(ctx context.Context, item *models.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[item.RecipeID]; !ok {
		return ErrNotFound
	}
	now := time.Now()
	item.ID = r.s.id()
	item.CreatedAt = now
	item.UpdatedAt = now
	cp := *item
	cp.Recipe = models.Recipe{}
	r.s.menu[cp.ID] = &cp
	return nil
}

func (r memoryMenu) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.menu[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := r.s.withRecipe(*item)
	return &cp, nil
}

func (r memoryMenu) GetByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := make([]models.MenuItem, 0, len(ids))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		item, ok := r.s.menu[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, r.s.withRecipe(*item))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r memoryMenu) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := make([]models.MenuItem, 0, len(r.s.menu))
	for _, item := range r.s.menu {
		full := r.s.withRecipe(*item)
		if filter.Category != "" && !strings.EqualFold(full.Recipe.Category, filter.Category) {
			continue
		}
		if filter.AvailableOnly && !full.Available {
			continue
		}
		items = append(items, full)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

type memoryCartLines struct{ s *MemoryStore }

func (r memoryCartLines) Create(ctx context.Context, line *models.CartLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	line.ID = r.s.id()
	if line.Status == "" {
		line.Status = string(models.CartLinePending)
	}
	line.CreatedAt = now
	line.UpdatedAt = now
	cp := *line
	r.s.lines[cp.ID] = &cp
	return nil
}

func (r memoryCartLines) GetByID(ctx context.Context, id uint) (*models.CartLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.lines[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memoryCartLines) GetPendingByCustomer(ctx context.Context, customerID uint) ([]models.CartLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.pendingLines(customerID, nil), nil
}

func (r memoryCartLines) GetUnorderedPending(ctx context.Context, customerID uint) ([]models.CartLine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.pendingLines(customerID, func(l *models.CartLine) bool { return !r.s.hasOrder(l.ID) }), nil
}

func (r memoryCartLines) CountOrderedPending(ctx context.Context, customerID uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lines := r.s.pendingLines(customerID, func(l *models.CartLine) bool { return r.s.hasOrder(l.ID) })
	return int64(len(lines)), nil
}

func (r memoryCartLines) UpdateQuantity(ctx context.Context, customerID, id uint, quantity int, total decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lines[id]
	if !ok || l.CustomerID != customerID || l.Status != string(models.CartLinePending) {
		return ErrNotFound
	}
	l.Quantity = quantity
	l.TotalPrice = total
	l.UpdatedAt = time.Now()
	return nil
}

func (r memoryCartLines) Delete(ctx context.Context, customerID, id uint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lines[id]
	if !ok || l.CustomerID != customerID || l.Status != string(models.CartLinePending) {
		return nil
	}
	delete(r.s.lines, id)
	return nil
}

func (r memoryCartLines) ConfirmOrdered(ctx context.Context, customerID uint) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now()
	for _, l := range r.s.lines {
		if l.CustomerID != customerID || l.Status != string(models.CartLinePending) || !r.s.hasOrder(l.ID) {
			continue
		}
		l.Status = string(models.CartLineConfirmed)
		l.UpdatedAt = now
		n++
	}
	return n, nil
}

type memoryPlacedOrders struct{ s *MemoryStore }

func (r memoryPlacedOrders) CreateBatch(ctx context.Context, orders []*models.PlacedOrder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	batch := make(map[uint]bool, len(orders))
	for _, o := range orders {
		if r.s.hasOrder(o.CartLineID) || batch[o.CartLineID] {
			return ErrDuplicate
		}
		batch[o.CartLineID] = true
	}
	now := time.Now()
	for _, o := range orders {
		o.ID = r.s.id()
		if o.OrderStatus == "" {
			o.OrderStatus = string(models.OrderPending)
		}
		o.CreatedAt = now
		cp := *o
		r.s.orders[cp.ID] = &cp
		r.s.orderLine[cp.CartLineID] = cp.ID
	}
	return nil
}

func (r memoryPlacedOrders) GetByID(ctx context.Context, id uint) (*models.PlacedOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r memoryPlacedOrders) GetByCustomer(ctx context.Context, customerID uint) ([]models.PlacedOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.PlacedOrder, 0)
	for _, o := range r.s.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
