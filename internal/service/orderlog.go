package service

import (
	"context"
	"sort"
	"strings"
	"vex-storefront/internal/model"
	"vex-storefront/internal/repository"
)

// OrderLog reads and appends the append-only order record. Listing never
// mutates the stored log.
type OrderLog struct {
	repo repository.OrderRepository
}

func NewOrderLog(repo repository.OrderRepository) *OrderLog {
	return &OrderLog{
		repo: repo,
	}
}

func (l *OrderLog) Append(ctx context.Context, order model.Order) error {
	return l.repo.Append(ctx, order)
}

// List returns orders newest-first. A non-empty query keeps only orders
// whose number or any item name contains it, case-insensitively.
func (l *OrderLog) List(ctx context.Context, query string) ([]model.Order, error) {
	stored, err := l.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]model.Order, len(stored))
	copy(orders, stored)

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})

	if query == "" {
		return orders, nil
	}

	q := strings.ToLower(query)
	filtered := orders[:0:0]
	for _, order := range orders {
		if matchesQuery(order, q) {
			filtered = append(filtered, order)
		}
	}

	return filtered, nil
}

// Find returns the order with the given number, for the print/detail hook.
func (l *OrderLog) Find(ctx context.Context, orderNumber string) (*model.Order, error) {
	orders, err := l.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].OrderNumber == orderNumber {
			return &orders[i], nil
		}
	}

	return nil, ErrNotFound
}

// ItemCount sums the units of every item, tolerating legacy records that
// stored the quantity under "amount".
func ItemCount(order model.Order) int {
	total := 0
	for _, item := range order.Items {
		total += item.Units()
	}
	return total
}

func matchesQuery(order model.Order, q string) bool {
	if strings.Contains(strings.ToLower(order.OrderNumber), q) {
		return true
	}
	for _, item := range order.Items {
		if strings.Contains(strings.ToLower(item.Name), q) {
			return true
		}
	}
	return false
}
