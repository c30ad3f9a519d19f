package repository

import (
	"context"
	"food_ordering/internal/models"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return translate(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}
