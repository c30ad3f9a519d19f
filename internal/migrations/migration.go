package migrations

import (
	"context"
	"errors"
	"food_ordering/internal/database"
	"food_ordering/internal/models"
	"food_ordering/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultUsername = "demo"
	DefaultPassword = "demo123"
)

type defaultItem struct {
	name      string
	category  string
	price     string
	available bool
}

var defaultMenu = []defaultItem{
	{"Lumpiang Shanghai", "Appetizers", "120.00", true},
	{"Chicharon Bulaklak", "Appetizers", "150.00", false},
	{"Chicken Adobo", "Main Dish", "150.00", true},
	{"Kare-Kare", "Main Dish", "280.00", true},
	{"Garlic Rice", "Side Dishes", "45.00", true},
	{"Pancit Canton", "Side Dishes", "80.00", true},
	{"Sago't Gulaman", "Beverages", "60.00", true},
	{"Calamansi Juice", "Beverages", "55.00", true},
}

// RunMigrations migrates the schema. With reset set every table is dropped
// first.
func RunMigrations(db *gorm.DB, reset bool, log zerolog.Logger) error {
	log.Info().Bool("reset", reset).Msg("running database migrations")

	if reset {
		err := db.Migrator().DropTable(
			&models.PlacedOrder{},
			&models.CartLine{},
			&models.MenuItem{},
			&models.Recipe{},
			&models.Customer{},
		)
		if err != nil {
			log.Warn().Err(err).Msg("error dropping tables")
		}
	}

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedDefaultData creates a demo customer and menu unless the demo customer
// already exists.
func SeedDefaultData(ctx context.Context, repos repository.Repositories, log zerolog.Logger) error {
	_, err := repos.Customers.GetByUsername(ctx, DefaultUsername)
	if err == nil {
		log.Info().Str("username", DefaultUsername).Msg("default data already present")
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	customer := &models.Customer{
		Username:     DefaultUsername,
		Email:        "demo@example.com",
		PasswordHash: string(hashed),
	}
	if err := repos.Customers.Create(ctx, customer); err != nil {
		return err
	}

	for _, d := range defaultMenu {
		recipe := &models.Recipe{Name: d.name, Category: d.category}
		if err := repos.Menu.CreateRecipe(ctx, recipe); err != nil {
			return err
		}
		item := &models.MenuItem{
			RecipeID:  recipe.ID,
			Price:     decimal.RequireFromString(d.price),
			Available: d.available,
		}
		if err := repos.Menu.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	log.Info().Str("username", DefaultUsername).Int("menu_items", len(defaultMenu)).Msg("default data created")
	return nil
}
