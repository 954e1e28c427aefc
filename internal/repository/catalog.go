package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"vex-storefront/internal/model"
)

// CatalogRepository persists the admin working copy, the published catalog
// and the provenance marker. A corrupt slot is logged and treated as absent
// so the caller falls back to an empty collection or a fresh fetch.
type CatalogRepository interface {
	LoadWorking(ctx context.Context) ([]model.Product, bool, error)
	SaveWorking(ctx context.Context, products []model.Product) error
	LoadPublished(ctx context.Context) ([]model.Product, bool, error)
	Publish(ctx context.Context, products []model.Product) error
	Provenance(ctx context.Context) (*model.Provenance, error)
	SetProvenance(ctx context.Context, p model.Provenance) error
	ClearAll(ctx context.Context) error
}

type catalogRepoImpl struct {
	storage StorageRepository
}

func NewCatalogRepository(storage StorageRepository) CatalogRepository {
	return &catalogRepoImpl{
		storage: storage,
	}
}

func (r *catalogRepoImpl) LoadWorking(ctx context.Context) ([]model.Product, bool, error) {
	return r.getProducts(ctx, model.SlotAdminProducts)
}

func (r *catalogRepoImpl) LoadPublished(ctx context.Context) ([]model.Product, bool, error) {
	return r.getProducts(ctx, model.SlotProducts)
}

func (r *catalogRepoImpl) getProducts(ctx context.Context, slot string) ([]model.Product, bool, error) {
	raw, ok, err := r.storage.Get(ctx, slot)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var products []model.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		log.Printf("corrupt %s slot, discarding: %v", slot, err)
		return nil, false, nil
	}
	if products == nil {
		products = []model.Product{}
	}

	return products, true, nil
}

func (r *catalogRepoImpl) SaveWorking(ctx context.Context, products []model.Product) error {
	return r.setProducts(ctx, model.SlotAdminProducts, products)
}

func (r *catalogRepoImpl) Publish(ctx context.Context, products []model.Product) error {
	return r.setProducts(ctx, model.SlotProducts, products)
}

func (r *catalogRepoImpl) setProducts(ctx context.Context, slot string, products []model.Product) error {
	if products == nil {
		products = []model.Product{}
	}

	buf, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	return r.storage.Set(ctx, slot, string(buf))
}

func (r *catalogRepoImpl) Provenance(ctx context.Context) (*model.Provenance, error) {
	raw, ok, err := r.storage.Get(ctx, model.SlotProvenance)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var p model.Provenance
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("corrupt %s slot, discarding: %v", model.SlotProvenance, err)
		return nil, nil
	}

	return &p, nil
}

func (r *catalogRepoImpl) SetProvenance(ctx context.Context, p model.Provenance) error {
	buf, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal provenance: %w", err)
	}

	return r.storage.Set(ctx, model.SlotProvenance, string(buf))
}

func (r *catalogRepoImpl) ClearAll(ctx context.Context) error {
	for _, key := range []string{model.SlotAdminProducts, model.SlotProducts, model.SlotProvenance} {
		if err := r.storage.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
