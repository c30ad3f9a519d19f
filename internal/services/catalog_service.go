package services

import (
	"context"
	"food_ordering/internal/models"
	"food_ordering/internal/repository"
)

// CatalogService is the read-only view of the menu.
type CatalogService interface {
	ListMenu(ctx context.Context, filter repository.MenuFilter) ([]models.MenuEntry, error)
	GetEntry(ctx context.Context, menuItemID uint) (models.MenuEntry, error)
	GetEntries(ctx context.Context, menuItemIDs []uint) (map[uint]models.MenuEntry, error)
}

type catalogService struct {
	menuRepo repository.MenuRepository
}

func NewCatalogService(menuRepo repository.MenuRepository) CatalogService {
	return &catalogService{menuRepo: menuRepo}
}

func (s *catalogService) ListMenu(ctx context.Context, filter repository.MenuFilter) ([]models.MenuEntry, error) {
	items, err := s.menuRepo.List(ctx, filter)
	if err != nil {
		return nil, storeError("list menu", err)
	}

	entries := make([]models.MenuEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.NewMenuEntry(item))
	}
	return entries, nil
}

func (s *catalogService) GetEntry(ctx context.Context, menuItemID uint) (models.MenuEntry, error) {
	item, err := s.menuRepo.GetByID(ctx, menuItemID)
	if err != nil {
		return models.MenuEntry{}, storeError("get menu item", err)
	}
	return models.NewMenuEntry(*item), nil
}

// GetEntries looks up several items at once. Unknown ids are left out of the map.
func (s *catalogService) GetEntries(ctx context.Context, menuItemIDs []uint) (map[uint]models.MenuEntry, error) {
	items, err := s.menuRepo.GetByIDs(ctx, menuItemIDs)
	if err != nil {
		return nil, storeError("get menu items", err)
	}

	entries := make(map[uint]models.MenuEntry, len(items))
	for _, item := range items {
		entries[item.ID] = models.NewMenuEntry(item)
	}
	return entries, nil
}
