package repository

import (
	"context"
	"food_ordering/internal/models"

	"gorm.io/gorm"
)

// MenuFilter narrows catalog reads. Zero value matches everything. Category
// is compared case-insensitively.
type MenuFilter struct {
	Category      string
	AvailableOnly bool
}

type MenuRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	return translate(r.db.WithContext(ctx).Create(recipe).Error)
}

func (r *menuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return translate(r.db.WithContext(ctx).Omit("Recipe").Create(item).Error)
}

func (r *menuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).Joins("Recipe").First(&item, "menu_items.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *menuRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Joins("Recipe").Where("menu_items.id IN ?", ids).Order("menu_items.id ASC").Find(&items).Error
	return items, err
}

func (r *menuRepository) List(ctx context.Context, filter MenuFilter) ([]models.MenuItem, error) {
	var items []models.MenuItem
	q := r.db.WithContext(ctx).Joins("Recipe")
	if filter.Category != "" {
		q = q.Where(`LOWER("Recipe"."category") = LOWER(?)`, filter.Category)
	}
	if filter.AvailableOnly {
		q = q.Where("menu_items.available = ?", true)
	}
	err := q.Order("menu_items.id ASC").Find(&items).Error
	return items, err
}
