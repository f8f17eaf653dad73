package service

import (
	"context"
	"fmt"

	"github.com/rl1809/stock-tally/internal/core/domain"
	"github.com/rl1809/stock-tally/internal/port"
)

// InventoryKey is the single preferences key holding the encoded inventory.
const InventoryKey = "inventory_json"

// InventoryStore loads and saves the whole inventory as one JSON blob.
type InventoryStore struct {
	prefs port.Preferences
}

func NewInventoryStore(prefs port.Preferences) *InventoryStore {
	return &InventoryStore{prefs: prefs}
}

func (s *InventoryStore) Load(ctx context.Context) (domain.Inventory, error) {
	raw, err := s.prefs.GetString(ctx, InventoryKey, domain.EmptyInventoryJSON)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	inv, err := domain.DecodeInventory(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptInventory, err)
	}

	return inv, nil
}

// Save replaces the persisted inventory with inv.
func (s *InventoryStore) Save(ctx context.Context, inv domain.Inventory) error {
	raw, err := inv.Encode()
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}

	if err := s.prefs.PutString(ctx, InventoryKey, raw); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}

	return nil
}
