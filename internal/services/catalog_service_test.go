package services

import (
	"context"
	"errors"
	"testing"

	"food_ordering/internal/repository"
)

func TestListMenuFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter repository.MenuFilter
		want   []uint
	}{
		{"everything", repository.MenuFilter{}, []uint{f.adobo, f.pancit, f.soldOut}},
		{"by category", repository.MenuFilter{Category: "Main Dish"}, []uint{f.adobo, f.soldOut}},
		{"category ignores case", repository.MenuFilter{Category: "side dishes"}, []uint{f.pancit}},
		{"available only", repository.MenuFilter{AvailableOnly: true}, []uint{f.adobo, f.pancit}},
		{"both", repository.MenuFilter{Category: "Main Dish", AvailableOnly: true}, []uint{f.adobo}},
		{"unknown category", repository.MenuFilter{Category: "Desserts"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := f.catalog.ListMenu(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListMenu: %v", err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if e.MenuItemID != tt.want[i] {
					t.Errorf("entry %d = item %d, want %d", i, e.MenuItemID, tt.want[i])
				}
			}
		})
	}
}

func TestGetEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.catalog.GetEntry(ctx, f.soldOut)
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	if e.Name != "Lechon" || e.Available || !e.Price.Equal(dec("200")) {
		t.Fatalf("unexpected entry %+v", e)
	}

	if _, err := f.catalog.GetEntry(ctx, 777); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetEntriesSkipsUnknownIDs(t *testing.T) {
	f := newFixture(t)

	entries, err := f.catalog.GetEntries(context.Background(), []uint{f.pancit, 777, f.adobo, f.pancit})
	if err != nil {
		t.Fatalf("GetEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[f.adobo].Name != "Chicken Adobo" || entries[f.pancit].Name != "Pancit Canton" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}
