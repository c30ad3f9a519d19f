package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is a pending order row. TotalPrice is the price snapshot taken at
// the last quantity mutation; later menu price changes do not touch it.
type CartLine struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CustomerID uint            `json:"customer_id" gorm:"not null;index:idx_cart_lines_customer_status"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:numeric(12,2);not null"`
	Status     string          `json:"status" gorm:"not null;default:'pending';index:idx_cart_lines_customer_status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `json:"-" gorm:"index"`
}

type CartLineStatus string

const (
	CartLinePending   CartLineStatus = "pending"
	CartLineConfirmed CartLineStatus = "confirmed"
)

// CartLineView is a cart line enriched with its catalog entry.
type CartLineView struct {
	CartLine
	Item MenuEntry `json:"menu_item"`
}

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
