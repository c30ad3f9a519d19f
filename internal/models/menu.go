package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Category    string    `json:"category" gorm:"index;not null"` // Appetizers, Main Dish, Side Dishes, Beverages
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	RecipeID    uint            `json:"recipe_id" gorm:"not null"`
	Recipe      Recipe          `json:"recipe" gorm:"foreignKey:RecipeID"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Description string          `json:"description" gorm:"type:text"`
	// no default tag, false has to persist as false
	Available bool      `json:"available" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenuEntry is the flattened catalog view of a menu item and its recipe.
type MenuEntry struct {
	MenuItemID  uint            `json:"menu_item_id"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
}

func NewMenuEntry(item MenuItem) MenuEntry {
	desc := item.Description
	if desc == "" {
		desc = item.Recipe.Description
	}
	return MenuEntry{
		MenuItemID:  item.ID,
		Price:       item.Price,
		Available:   item.Available,
		Name:        item.Recipe.Name,
		Category:    item.Recipe.Category,
		ImageURL:    item.Recipe.ImageURL,
		Description: desc,
	}
}
