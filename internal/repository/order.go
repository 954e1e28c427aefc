package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"vex-storefront/internal/model"
)

// OrderRepository is the append-only order log. Orders are never edited or
// deleted once written.
type OrderRepository interface {
	List(ctx context.Context) ([]model.Order, error)
	Append(ctx context.Context, order model.Order) error
}

type orderRepoImpl struct {
	storage StorageRepository
}

func NewOrderRepository(storage StorageRepository) OrderRepository {
	return &orderRepoImpl{
		storage: storage,
	}
}

func (r *orderRepoImpl) List(ctx context.Context) ([]model.Order, error) {
	raw, ok, err := r.storage.Get(ctx, model.SlotOrders)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Order{}, nil
	}

	var orders []model.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		log.Printf("corrupt %s slot, starting a fresh log: %v", model.SlotOrders, err)
		return []model.Order{}, nil
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

func (r *orderRepoImpl) Append(ctx context.Context, order model.Order) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}

	orders = append(orders, order)

	buf, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	return r.storage.Set(ctx, model.SlotOrders, string(buf))
}
