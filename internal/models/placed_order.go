package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlacedOrder is the immutable checkout snapshot of a single cart line.
type PlacedOrder struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	CartLineID   uint            `json:"cart_line_id" gorm:"uniqueIndex;not null"`
	CustomerID   uint            `json:"customer_id" gorm:"index;not null"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	DeliveryType string          `json:"delivery_type" gorm:"not null"`
	OrderStatus  string          `json:"order_status" gorm:"not null;default:'pending'"`
	CreatedAt    time.Time       `json:"created_at"`
}

type DeliveryType string

const (
	DineIn  DeliveryType = "Dine-in"
	TakeOut DeliveryType = "Take-out"
)

func (d DeliveryType) Valid() bool {
	return d == DineIn || d == TakeOut
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)
