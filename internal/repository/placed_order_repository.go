package repository

import (
	"context"
	"food_ordering/internal/models"

	"gorm.io/gorm"
)

type PlacedOrderRepository interface {
	// CreateBatch inserts every order or none of them.
	CreateBatch(ctx context.Context, orders []*models.PlacedOrder) error
	GetByID(ctx context.Context, id uint) (*models.PlacedOrder, error)
	GetByCustomer(ctx context.Context, customerID uint) ([]models.PlacedOrder, error)
}

type placedOrderRepository struct {
	db *gorm.DB
}

func NewPlacedOrderRepository(db *gorm.DB) PlacedOrderRepository {
	return &placedOrderRepository{db: db}
}

func (r *placedOrderRepository) CreateBatch(ctx context.Context, orders []*models.PlacedOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			if err := tx.Create(order).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// rolled back, clear ids handed out inside the transaction
		for _, order := range orders {
			order.ID = 0
		}
	}
	return translate(err)
}

func (r *placedOrderRepository) GetByID(ctx context.Context, id uint) (*models.PlacedOrder, error) {
	var order models.PlacedOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *placedOrderRepository) GetByCustomer(ctx context.Context, customerID uint) ([]models.PlacedOrder, error) {
	var orders []models.PlacedOrder
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id ASC").Find(&orders).Error
	return orders, err
}
