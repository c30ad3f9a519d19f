package repository

import (
	"context"
	"food_ordering/internal/models"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderedLine = "EXISTS (SELECT 1 FROM placed_orders po WHERE po.cart_line_id = cart_lines.id)"

type CartLineRepository interface {
	Create(ctx context.Context, line *models.CartLine) error
	GetByID(ctx context.Context, id uint) (*models.CartLine, error)
	GetPendingByCustomer(ctx context.Context, customerID uint) ([]models.CartLine, error)
	// GetUnorderedPending returns pending lines no placed order references yet.
	GetUnorderedPending(ctx context.Context, customerID uint) ([]models.CartLine, error)
	// CountOrderedPending counts pending lines that already have a placed order.
	CountOrderedPending(ctx context.Context, customerID uint) (int64, error)
	UpdateQuantity(ctx context.Context, customerID, id uint, quantity int, total decimal.Decimal) error
	Delete(ctx context.Context, customerID, id uint) error
	// ConfirmOrdered moves pending lines that have a placed order to confirmed.
	// Running it again is a no-op.
	ConfirmOrdered(ctx context.Context, customerID uint) (int64, error)
}

type cartLineRepository struct {
	db *gorm.DB
}

func NewCartLineRepository(db *gorm.DB) CartLineRepository {
	return &cartLineRepository{db: db}
}

func (r *cartLineRepository) Create(ctx context.Context, line *models.CartLine) error {
	return translate(r.db.WithContext(ctx).Create(line).Error)
}

func (r *cartLineRepository) GetByID(ctx context.Context, id uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).First(&line, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &line, nil
}

func (r *cartLineRepository) pending(ctx context.Context, customerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("customer_id = ? AND status = ?", customerID, string(models.CartLinePending))
}

func (r *cartLineRepository) GetPendingByCustomer(ctx context.Context, customerID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.pending(ctx, customerID).Order("id ASC").Find(&lines).Error
	return lines, err
}

func (r *cartLineRepository) GetUnorderedPending(ctx context.Context, customerID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.pending(ctx, customerID).Where("NOT " + orderedLine).Order("id ASC").Find(&lines).Error
	return lines, err
}

func (r *cartLineRepository) CountOrderedPending(ctx context.Context, customerID uint) (int64, error) {
	var n int64
	err := r.pending(ctx, customerID).Where(orderedLine).Count(&n).Error
	return n, err
}

// UpdateQuantity writes quantity and total in one statement so the pair is
// never observed half-applied.
func (r *cartLineRepository) UpdateQuantity(ctx context.Context, customerID, id uint, quantity int, total decimal.Decimal) error {
	res := r.pending(ctx, customerID).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":    quantity,
		"total_price": total,
		"updated_at":  time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartLineRepository) Delete(ctx context.Context, customerID, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ? AND status = ?", id, customerID, string(models.CartLinePending)).
		Delete(&models.CartLine{}).Error
}

func (r *cartLineRepository) ConfirmOrdered(ctx context.Context, customerID uint) (int64, error) {
	res := r.pending(ctx, customerID).Where(orderedLine).Updates(map[string]interface{}{
		"status":     string(models.CartLineConfirmed),
		"updated_at": time.Now(),
	})
	return res.RowsAffected, res.Error
}
