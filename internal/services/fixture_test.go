package services

import (
	"context"
	"testing"

	"food_ordering/internal/locker"
	"food_ordering/internal/models"
	"food_ordering/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type fixture struct {
	store    *repository.MemoryStore
	repos    repository.Repositories
	locks    *locker.Local
	catalog  CatalogService
	cart     CartService
	checkout CheckoutService
	resolver CustomerResolver

	customerID uint
	adobo      uint // 150.00
	pancit     uint // 80.00
	soldOut    uint // 200.00, unavailable
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{store: repository.NewMemoryStore(), locks: locker.NewLocal()}
	f.repos = f.store.Repositories()

	customer := &models.Customer{Username: "juan", PasswordHash: "x"}
	if err := f.repos.Customers.Create(ctx, customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	f.customerID = customer.ID

	f.adobo = f.addItem(t, "Chicken Adobo", "Main Dish", "150.00", true)
	f.pancit = f.addItem(t, "Pancit Canton", "Side Dishes", "80.00", true)
	f.soldOut = f.addItem(t, "Lechon", "Main Dish", "200.00", false)

	f.catalog = NewCatalogService(f.repos.Menu)
	f.cart = NewCartService(f.repos.CartLines, f.catalog, f.locks)
	f.checkout = NewCheckoutService(f.repos.CartLines, f.repos.PlacedOrders, f.locks, zerolog.Nop())
	f.resolver = NewCustomerResolver(f.repos.Customers, "test-secret")
	return f
}

func (f *fixture) addItem(t *testing.T, name, category, price string, available bool) uint {
	t.Helper()
	ctx := context.Background()
	recipe := &models.Recipe{Name: name, Category: category, ImageURL: "https://img.example/" + name}
	if err := f.repos.Menu.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("create recipe: %v", err)
	}
	item := &models.MenuItem{RecipeID: recipe.ID, Price: decimal.RequireFromString(price), Available: available}
	if err := f.repos.Menu.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item.ID
}

func (f *fixture) addCustomer(t *testing.T, username string) uint {
	t.Helper()
	c := &models.Customer{Username: username, PasswordHash: "x"}
	if err := f.repos.Customers.Create(context.Background(), c); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return c.ID
}

func (f *fixture) mustAdd(t *testing.T, menuItemID uint, qty int) *models.CartLine {
	t.Helper()
	line, err := f.cart.AddLine(context.Background(), f.customerID, menuItemID, qty)
	if err != nil {
		t.Fatalf("AddLine(%d, %d): %v", menuItemID, qty, err)
	}
	return line
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
