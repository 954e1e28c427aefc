package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"vex-storefront/internal/client"
	"vex-storefront/internal/dto"
	"vex-storefront/internal/model"
	"vex-storefront/internal/repository"
)

// CatalogStore owns the admin's working copy of the catalog. Edits stay in
// memory until Commit publishes them; Discard restores the snapshot taken
// at the last Load. The store is constructed per server, never global.
type CatalogStore struct {
	mu       sync.Mutex
	repo     repository.CatalogRepository
	source   client.CatalogClient
	gate     *ConfirmGate
	notifier Notifier

	working  []model.Product
	original []model.Product
	dirty    bool
}

func NewCatalogStore(
	repo repository.CatalogRepository,
	source client.CatalogClient,
	gate *ConfirmGate,
	notifier Notifier,
) *CatalogStore {
	return &CatalogStore{
		repo:     repo,
		source:   source,
		gate:     gate,
		notifier: notifier,
		working:  []model.Product{},
		original: []model.Product{},
	}
}

// Load populates the working set from the persisted admin copy, falling
// back to the catalog source. Failures resolve to an empty catalog and a
// notification; Load never propagates them.
func (s *CatalogStore) Load(ctx context.Context) {
	working, ok, err := s.repo.LoadWorking(ctx)
	if err != nil {
		log.Printf("load working copy: %v", err)
		ok = false
	}
	if !ok {
		working, err = s.source.FetchCatalog(ctx)
		if err != nil {
			log.Printf("error loading products: %v", err)
			s.notifier.Notify("Failed to load products", SeverityError)
			working = []model.Product{}
		}
	}
	if working == nil {
		working = []model.Product{}
	}
	fillCategories(working)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.working = working
	s.original = cloneProducts(working)
	s.dirty = false
}

// Products returns a snapshot of the working set; callers never alias the
// store's internal state.
func (s *CatalogStore) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneProducts(s.working)
}

func (s *CatalogStore) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dirty
}

func (s *CatalogStore) Create(draft dto.ProductDraft) (model.Product, error) {
	if err := validateDraft(draft); err != nil {
		s.notifier.Notify("Fill in all required fields", SeverityError)
		return model.Product{}, err
	}

	product := model.Product{
		ID:             time.Now().UnixMilli(), // coarse id, collisions under rapid inserts accepted
		Name:           draft.Name,
		Category:       model.Category(draft.Category),
		Price:          draft.Price,
		Image:          draft.Image,
		Description:    draft.Description,
		Amount:         10,
		Specifications: map[string]any{},
	}

	s.mu.Lock()
	s.working = append(s.working, product)
	s.dirty = true
	s.mu.Unlock()

	s.notifier.Notify(`Product added - click "Save changes" to publish to all pages`, SeveritySuccess)
	return product, nil
}

// Update replaces the form-carried fields of the record at index. Stock and
// specifications are not on the edit form and keep their previous values.
func (s *CatalogStore) Update(index int, draft dto.ProductDraft) (model.Product, error) {
	if err := validateDraft(draft); err != nil {
		s.notifier.Notify("Fill in all required fields", SeverityError)
		return model.Product{}, err
	}

	s.mu.Lock()
	if index < 0 || index >= len(s.working) {
		s.mu.Unlock()
		s.notifier.Notify("Product not found", SeverityError)
		return model.Product{}, ErrNotFound
	}

	existing := s.working[index]
	updated := model.Product{
		ID:             existing.ID,
		Name:           draft.Name,
		Category:       model.Category(draft.Category),
		Price:          draft.Price,
		Image:          draft.Image,
		Description:    draft.Description,
		Amount:         existing.Amount,
		Specifications: existing.Specifications,
	}
	s.working[index] = updated
	s.dirty = true
	s.mu.Unlock()

	s.notifier.Notify(`Product updated - click "Save changes" to publish to all pages`, SeveritySuccess)
	return updated, nil
}

// Remove defers the deletion behind the confirmation gate. Nothing changes
// until the returned action's token is confirmed.
func (s *CatalogStore) Remove(index int) (PendingAction, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.working) {
		s.mu.Unlock()
		s.notifier.Notify("Product not found", SeverityError)
		return PendingAction{}, ErrNotFound
	}
	product := s.working[index]
	s.mu.Unlock()

	pending := s.gate.Request(
		"Delete product",
		fmt.Sprintf("Are you sure you want to delete %q?", product.Name),
		func() error {
			return s.removeAt(index, product.ID)
		},
	)

	return pending, nil
}

func (s *CatalogStore) removeAt(index int, id int64) error {
	s.mu.Lock()
	// the working set may have shifted while the confirmation was pending
	if index < 0 || index >= len(s.working) || s.working[index].ID != id {
		s.mu.Unlock()
		s.notifier.Notify("Product not found", SeverityError)
		return ErrNotFound
	}
	s.working = append(s.working[:index], s.working[index+1:]...)
	s.dirty = true
	s.mu.Unlock()

	s.notifier.Notify(`Product deleted - click "Save changes" to publish to all pages`, SeveritySuccess)
	return nil
}

// Commit writes the working set to the admin and published slots and marks
// the catalog admin-edited. The only operation that makes edits visible to
// the shop pages.
func (s *CatalogStore) Commit(ctx context.Context) error {
	s.mu.Lock()
	working := cloneProducts(s.working)
	s.mu.Unlock()

	if err := s.repo.SaveWorking(ctx, working); err != nil {
		s.notifier.Notify("Failed to save changes", SeverityError)
		return fmt.Errorf("save working copy: %w", err)
	}
	if err := s.repo.Publish(ctx, working); err != nil {
		s.notifier.Notify("Failed to save changes", SeverityError)
		return fmt.Errorf("publish catalog: %w", err)
	}
	if err := s.repo.SetProvenance(ctx, model.Provenance{Kind: model.ProvenanceAdminEdited}); err != nil {
		s.notifier.Notify("Failed to save changes", SeverityError)
		return fmt.Errorf("mark provenance: %w", err)
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()

	s.notifier.Notify("Changes saved and published to all pages", SeveritySuccess)
	return nil
}

// RequestDiscard defers the reset behind the confirmation gate. The action
// may run long after the requesting call returns, so it carries its own
// context instead of borrowing the caller's.
func (s *CatalogStore) RequestDiscard() PendingAction {
	return s.gate.Request(
		"Reset products",
		"Are you sure you want to undo all changes? This cannot be undone.",
		func() error {
			s.Discard(context.Background())
			return nil
		},
	)
}

// Discard restores the working set from the snapshot taken at the last
// Load, clears every catalog slot and re-fetches the source to repopulate
// the published catalog. A failed re-fetch still counts as a reset.
func (s *CatalogStore) Discard(ctx context.Context) {
	s.mu.Lock()
	s.working = cloneProducts(s.original)
	s.dirty = false
	s.mu.Unlock()

	if err := s.repo.ClearAll(ctx); err != nil {
		log.Printf("clear catalog slots: %v", err)
	}

	if _, err := s.publishFresh(ctx); err != nil {
		log.Printf("refresh after reset: %v", err)
	}

	s.notifier.Notify("Products reset to their original state", SeveritySuccess)
}

// Published returns the catalog the shop pages render, with its
// provenance. An empty published slot is repopulated from the source first.
func (s *CatalogStore) Published(ctx context.Context) ([]model.Product, *model.Provenance, error) {
	products, ok, err := s.repo.LoadPublished(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		if products, err = s.publishFresh(ctx); err != nil {
			return nil, nil, err
		}
	}

	prov, err := s.repo.Provenance(ctx)
	if err != nil {
		return nil, nil, err
	}

	return products, prov, nil
}

// Refresh force-reloads the published catalog from the source, discarding
// the admin-edited provenance. Falls back to the current working set when
// the source is unreachable.
func (s *CatalogStore) Refresh(ctx context.Context) []model.Product {
	fresh, err := s.publishFresh(ctx)
	if err != nil {
		log.Printf("refresh products: %v", err)
		return s.Products()
	}

	return fresh
}

func (s *CatalogStore) publishFresh(ctx context.Context) ([]model.Product, error) {
	fresh, err := s.source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog source: %w", err)
	}
	fillCategories(fresh)

	if err := s.repo.Publish(ctx, fresh); err != nil {
		return nil, fmt.Errorf("publish catalog: %w", err)
	}

	now := time.Now()
	err = s.repo.SetProvenance(ctx, model.Provenance{
		Kind:      model.ProvenanceServerFresh,
		FetchedAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("mark provenance: %w", err)
	}

	return fresh, nil
}

// fillCategories classifies records the source delivered without an
// explicit category.
func fillCategories(products []model.Product) {
	for i, p := range products {
		if p.Category == "" {
			products[i].Category = model.DeriveCategory(p)
		}
	}
}

func validateDraft(draft dto.ProductDraft) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(draft.Name) == "" {
		fields["name"] = "this field is required"
	}
	if strings.TrimSpace(draft.Category) == "" {
		fields["category"] = "this field is required"
	}
	if strings.TrimSpace(draft.Image) == "" {
		fields["image"] = "this field is required"
	}
	if draft.Price <= 0 {
		fields["price"] = "price must be greater than 0"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// cloneProducts deep-copies via a JSON round-trip so nested specification
// maps never alias between snapshots.
func cloneProducts(in []model.Product) []model.Product {
	out := []model.Product{}
	buf, err := json.Marshal(in)
	if err != nil {
		log.Printf("clone products: %v", err)
		return out
	}
	if err := json.Unmarshal(buf, &out); err != nil {
		log.Printf("clone products: %v", err)
		return []model.Product{}
	}
	return out
}
