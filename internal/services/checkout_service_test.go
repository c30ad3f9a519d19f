package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"food_ordering/internal/models"
	"food_ordering/internal/repository"

	"github.com/rs/zerolog"
)

var errBoom = errors.New("connection reset by peer")

type failingOrders struct {
	repository.PlacedOrderRepository
	err error
}

func (r failingOrders) CreateBatch(ctx context.Context, orders []*models.PlacedOrder) error {
	return r.err
}

type failingConfirm struct {
	repository.CartLineRepository
	failures int
	mu       sync.Mutex
}

func (r *failingConfirm) ConfirmOrdered(ctx context.Context, customerID uint) (int64, error) {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return 0, errBoom
	}
	r.mu.Unlock()
	return r.CartLineRepository.ConfirmOrdered(ctx, customerID)
}

func (f *fixture) lineStatuses(t *testing.T, ids ...uint) []string {
	t.Helper()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		l, err := f.repos.CartLines.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID(%d): %v", id, err)
		}
		out = append(out, l.Status)
	}
	return out
}

func TestPlaceOrderScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.mustAdd(t, f.adobo, 2)
	b := f.mustAdd(t, f.pancit, 1)

	total, err := f.cart.Total(ctx, f.customerID)
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	if !total.Equal(dec("380")) {
		t.Fatalf("total = %s, want 380", total)
	}

	orders, err := f.checkout.PlaceOrder(ctx, f.customerID, models.DineIn)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}

	want := map[uint]string{a.ID: "300", b.ID: "80"}
	for _, o := range orders {
		amount, ok := want[o.CartLineID]
		if !ok {
			t.Fatalf("order for unexpected line %d", o.CartLineID)
		}
		if !o.TotalAmount.Equal(dec(amount)) {
			t.Errorf("line %d amount = %s, want %s", o.CartLineID, o.TotalAmount, amount)
		}
		if o.DeliveryType != "Dine-in" || o.OrderStatus != "pending" || o.ID == 0 {
			t.Errorf("unexpected order %+v", o)
		}
	}

	for _, st := range f.lineStatuses(t, a.ID, b.ID) {
		if st != string(models.CartLineConfirmed) {
			t.Fatalf("line status = %q, want confirmed", st)
		}
	}

	views, _ := f.cart.ListPending(ctx, f.customerID)
	if len(views) != 0 {
		t.Fatalf("%d lines still pending after checkout", len(views))
	}
	total, _ = f.cart.Total(ctx, f.customerID)
	if !total.IsZero() {
		t.Fatalf("total after checkout = %s, want 0", total)
	}

	history, err := f.checkout.ListOrders(ctx, f.customerID)
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d orders, want 2", len(history))
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.PlaceOrder(ctx, f.customerID, models.TakeOut)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	history, _ := f.checkout.ListOrders(ctx, f.customerID)
	if len(history) != 0 {
		t.Fatalf("empty checkout created %d orders", len(history))
	}
}

func TestPlaceOrderRejectsUnknownDeliveryType(t *testing.T) {
	f := newFixture(t)
	line := f.mustAdd(t, f.adobo, 1)

	for _, dt := range []models.DeliveryType{"", "Delivery", "dine-in"} {
		_, err := f.checkout.PlaceOrder(context.Background(), f.customerID, dt)
		if !errors.Is(err, ErrInvalidDeliveryType) {
			t.Fatalf("PlaceOrder(%q) err = %v, want ErrInvalidDeliveryType", dt, err)
		}
	}
	if st := f.lineStatuses(t, line.ID)[0]; st != string(models.CartLinePending) {
		t.Fatalf("line status = %q after rejected checkout", st)
	}
}

func TestPlaceOrderSnapshotFailureChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustAdd(t, f.adobo, 1)
	b := f.mustAdd(t, f.pancit, 2)

	checkout := NewCheckoutService(f.repos.CartLines, failingOrders{f.repos.PlacedOrders, errBoom}, f.locks, zerolog.Nop())
	orders, err := checkout.PlaceOrder(ctx, f.customerID, models.TakeOut)
	if !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("err = %v, want ErrCheckoutFailed", err)
	}
	if Retryable(err) {
		t.Fatalf("snapshot failure reported as retryable")
	}
	if orders != nil {
		t.Fatalf("failed checkout returned orders %+v", orders)
	}
	for _, st := range f.lineStatuses(t, a.ID, b.ID) {
		if st != string(models.CartLinePending) {
			t.Fatalf("line status = %q, want pending", st)
		}
	}
	history, _ := f.checkout.ListOrders(ctx, f.customerID)
	if len(history) != 0 {
		t.Fatalf("failed checkout left %d orders", len(history))
	}
}

func TestPlaceOrderTimeoutIsUnknownOutcome(t *testing.T) {
	f := newFixture(t)
	f.mustAdd(t, f.adobo, 1)

	checkout := NewCheckoutService(f.repos.CartLines, failingOrders{f.repos.PlacedOrders, context.DeadlineExceeded}, f.locks, zerolog.Nop())
	_, err := checkout.PlaceOrder(context.Background(), f.customerID, models.DineIn)
	if !errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("err = %v, want ErrStoreUnavailable only", err)
	}
}

func TestPartialCheckoutAndRepair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustAdd(t, f.adobo, 2)
	b := f.mustAdd(t, f.pancit, 1)

	lines := &failingConfirm{CartLineRepository: f.repos.CartLines, failures: 1}
	checkout := NewCheckoutService(lines, f.repos.PlacedOrders, f.locks, zerolog.Nop())

	orders, err := checkout.PlaceOrder(ctx, f.customerID, models.DineIn)
	if !errors.Is(err, ErrPartialCheckout) || !Retryable(err) {
		t.Fatalf("err = %v, want retryable ErrPartialCheckout", err)
	}
	if len(orders) != 2 {
		t.Fatalf("partial checkout returned %d orders, want 2", len(orders))
	}
	for _, st := range f.lineStatuses(t, a.ID, b.ID) {
		if st != string(models.CartLinePending) {
			t.Fatalf("line status = %q, want pending", st)
		}
	}

	// placing again must not snapshot the same lines twice
	_, err = checkout.PlaceOrder(ctx, f.customerID, models.DineIn)
	if !errors.Is(err, ErrPartialCheckout) {
		t.Fatalf("second PlaceOrder err = %v, want ErrPartialCheckout", err)
	}

	n, err := checkout.CompleteCheckout(ctx, f.customerID)
	if err != nil {
		t.Fatalf("CompleteCheckout: %v", err)
	}
	if n != 2 {
		t.Fatalf("confirmed %d lines, want 2", n)
	}
	for _, st := range f.lineStatuses(t, a.ID, b.ID) {
		if st != string(models.CartLineConfirmed) {
			t.Fatalf("line status = %q, want confirmed", st)
		}
	}

	history, _ := checkout.ListOrders(ctx, f.customerID)
	if len(history) != 2 {
		t.Fatalf("history has %d orders, want 2", len(history))
	}
}

func TestCompleteCheckoutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustAdd(t, f.adobo, 1)

	if _, err := f.checkout.PlaceOrder(ctx, f.customerID, models.TakeOut); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	for i := 0; i < 2; i++ {
		n, err := f.checkout.CompleteCheckout(ctx, f.customerID)
		if err != nil {
			t.Fatalf("CompleteCheckout #%d: %v", i, err)
		}
		if n != 0 {
			t.Fatalf("CompleteCheckout #%d confirmed %d lines, want 0", i, n)
		}
	}
	history, _ := f.checkout.ListOrders(ctx, f.customerID)
	if len(history) != 1 {
		t.Fatalf("history has %d orders, want 1", len(history))
	}
}

func TestPlaceOrderLeavesLaterLinesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustAdd(t, f.adobo, 1)

	if _, err := f.checkout.PlaceOrder(ctx, f.customerID, models.TakeOut); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	later := f.mustAdd(t, f.pancit, 1)

	if _, err := f.checkout.CompleteCheckout(ctx, f.customerID); err != nil {
		t.Fatalf("CompleteCheckout: %v", err)
	}
	if st := f.lineStatuses(t, later.ID)[0]; st != string(models.CartLinePending) {
		t.Fatalf("line added after checkout is %q, want pending", st)
	}

	orders, err := f.checkout.PlaceOrder(ctx, f.customerID, models.DineIn)
	if err != nil {
		t.Fatalf("second PlaceOrder: %v", err)
	}
	if len(orders) != 1 || orders[0].CartLineID != later.ID {
		t.Fatalf("second checkout orders = %+v", orders)
	}
}

func TestConcurrentPlaceOrderSucceedsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustAdd(t, f.adobo, 2)
	f.mustAdd(t, f.pancit, 1)

	const callers = 2
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
		ok   int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orders, err := f.checkout.PlaceOrder(ctx, f.customerID, models.DineIn)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if len(orders) != 2 {
				t.Errorf("winning checkout returned %d orders", len(orders))
			}
			ok++
		}()
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("%d checkouts succeeded, want 1 (errors: %v)", ok, errs)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrEmptyCart) {
		t.Fatalf("loser errors = %v, want ErrEmptyCart", errs)
	}
	history, _ := f.checkout.ListOrders(ctx, f.customerID)
	if len(history) != 2 {
		t.Fatalf("history has %d orders, want 2", len(history))
	}
}

func TestCheckoutIsScopedToCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.addCustomer(t, "maria")

	f.mustAdd(t, f.adobo, 1)
	if _, err := f.cart.AddLine(ctx, other, f.pancit, 2); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if _, err := f.checkout.PlaceOrder(ctx, f.customerID, models.DineIn); err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	views, _ := f.cart.ListPending(ctx, other)
	if len(views) != 1 {
		t.Fatalf("other customer's cart has %d lines, want 1", len(views))
	}
	history, _ := f.checkout.ListOrders(ctx, other)
	if len(history) != 0 {
		t.Fatalf("other customer got %d orders", len(history))
	}
}
