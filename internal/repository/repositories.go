package repository

import "gorm.io/gorm"

// Repositories bundles the store access the cart core needs.
type Repositories struct {
	Customers    CustomerRepository
	Menu         MenuRepository
	CartLines    CartLineRepository
	PlacedOrders PlacedOrderRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Customers:    NewCustomerRepository(db),
		Menu:         NewMenuRepository(db),
		CartLines:    NewCartLineRepository(db),
		PlacedOrders: NewPlacedOrderRepository(db),
	}
}
