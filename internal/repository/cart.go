package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"vex-storefront/internal/model"
)

// CartRepository reads the cart the shop pages write and clears it after a
// completed checkout.
type CartRepository interface {
	Load(ctx context.Context) ([]model.CartItem, error)
	Save(ctx context.Context, items []model.CartItem) error
	Clear(ctx context.Context) error
}

type cartRepoImpl struct {
	storage StorageRepository
}

func NewCartRepository(storage StorageRepository) CartRepository {
	return &cartRepoImpl{
		storage: storage,
	}
}

func (r *cartRepoImpl) Load(ctx context.Context) ([]model.CartItem, error) {
	raw, ok, err := r.storage.Get(ctx, model.SlotCart)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.CartItem{}, nil
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("corrupt %s slot, treating as empty: %v", model.SlotCart, err)
		return []model.CartItem{}, nil
	}
	if items == nil {
		items = []model.CartItem{}
	}

	return items, nil
}

func (r *cartRepoImpl) Save(ctx context.Context, items []model.CartItem) error {
	if items == nil {
		items = []model.CartItem{}
	}

	buf, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	return r.storage.Set(ctx, model.SlotCart, string(buf))
}

func (r *cartRepoImpl) Clear(ctx context.Context) error {
	return r.storage.Delete(ctx, model.SlotCart)
}
