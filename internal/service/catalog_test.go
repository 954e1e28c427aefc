package service

import (
	"context"
	"errors"
	"testing"
	"vex-storefront/internal/dto"
	"vex-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() []model.Product {
	return []model.Product{
		{
			ID:       1,
			Name:     "AMD Ryzen 7 7800X3D",
			Category: model.CategoryCPU,
			Price:    379.99,
			Image:    "/img/ryzen.png",
			Amount:   4,
			Specifications: map[string]any{
				"socket": "AM5",
			},
		},
		{
			ID:             2,
			Name:           "Corsair Vengeance DDR5 32GB",
			Category:       model.CategoryMemory,
			Price:          109.50,
			Image:          "/img/vengeance.png",
			Amount:         12,
			Specifications: map[string]any{},
		},
	}
}

func validDraft() dto.ProductDraft {
	return dto.ProductDraft{
		Name:        "NZXT Kraken 240",
		Category:    "cooling",
		Price:       129.99,
		Image:       "/img/kraken.png",
		Description: "240mm AIO liquid cooler",
	}
}

func newStore(repo *MockCatalogRepository, source *MockCatalogClient) (*CatalogStore, *ConfirmGate, *RecordingNotifier) {
	gate := NewConfirmGate()
	notifier := &RecordingNotifier{}
	return NewCatalogStore(repo, source, gate, notifier), gate, notifier
}

func TestLoad_FetchesWhenNoWorkingCopy(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)

	store.Load(context.Background())

	assert.Equal(t, 1, source.Calls)
	assert.Equal(t, sampleCatalog(), store.Products())
	assert.False(t, store.Dirty())
}

func TestLoad_PrefersPersistedWorkingCopy(t *testing.T) {
	repo := &MockCatalogRepository{Working: sampleCatalog(), HasWorking: true}
	source := &MockCatalogClient{Products: []model.Product{{ID: 99, Name: "should not appear"}}}
	store, _, _ := newStore(repo, source)

	store.Load(context.Background())

	assert.Equal(t, 0, source.Calls)
	assert.Equal(t, sampleCatalog(), store.Products())
}

func TestLoad_FallsBackToEmptyOnFetchError(t *testing.T) {
	source := &MockCatalogClient{Err: errors.New("connection refused")}
	store, _, notifier := newStore(&MockCatalogRepository{}, source)

	store.Load(context.Background())

	assert.Equal(t, []model.Product{}, store.Products())
	assert.Equal(t, SeverityError, notifier.LastSeverity())
	assert.False(t, store.Dirty())
}

func TestLoad_WorkingSetIsNeverNil(t *testing.T) {
	source := &MockCatalogClient{Products: nil}
	store, _, _ := newStore(&MockCatalogRepository{}, source)

	store.Load(context.Background())

	assert.NotNil(t, store.Products())
	assert.Empty(t, store.Products())
}

func TestLoad_DerivesMissingCategories(t *testing.T) {
	source := &MockCatalogClient{Products: []model.Product{
		{ID: 1, Name: "Intel Core i5-14600K processor", Price: 319},
		{ID: 2, Name: "Mystery bundle", Price: 49},
	}}
	store, _, _ := newStore(&MockCatalogRepository{}, source)

	store.Load(context.Background())

	products := store.Products()
	assert.Equal(t, model.CategoryCPU, products[0].Category)
	assert.Equal(t, model.CategoryOther, products[1].Category)
}

func TestCreate_AppendsWithDefaults(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	draft := validDraft()
	created, err := store.Create(draft)
	require.NoError(t, err)

	products := store.Products()
	last := products[len(products)-1]
	assert.Equal(t, created, last)
	assert.Equal(t, draft.Name, last.Name)
	assert.Equal(t, model.Category(draft.Category), last.Category)
	assert.Equal(t, draft.Price, last.Price)
	assert.Equal(t, draft.Image, last.Image)
	assert.Equal(t, draft.Description, last.Description)
	assert.Equal(t, 10, last.Amount)
	assert.Empty(t, last.Specifications)
	assert.NotZero(t, last.ID)
	assert.True(t, store.Dirty())
}

func TestCreate_RejectsInvalidDrafts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.ProductDraft)
		field  string
	}{
		{"missing name", func(d *dto.ProductDraft) { d.Name = "" }, "name"},
		{"missing category", func(d *dto.ProductDraft) { d.Category = "" }, "category"},
		{"missing image", func(d *dto.ProductDraft) { d.Image = "" }, "image"},
		{"zero price", func(d *dto.ProductDraft) { d.Price = 0 }, "price"},
		{"negative price", func(d *dto.ProductDraft) { d.Price = -5 }, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &MockCatalogClient{Products: sampleCatalog()}
			store, _, notifier := newStore(&MockCatalogRepository{}, source)
			store.Load(context.Background())

			draft := validDraft()
			tt.mutate(&draft)

			_, err := store.Create(draft)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Len(t, store.Products(), 2, "no mutation on invalid draft")
			assert.False(t, store.Dirty())
			assert.Equal(t, SeverityError, notifier.LastSeverity())
		})
	}
}

func TestUpdate_PreservesStockAndSpecifications(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	before := store.Products()[0]

	updated, err := store.Update(0, validDraft())
	require.NoError(t, err)

	assert.Equal(t, before.ID, updated.ID)
	assert.Equal(t, before.Amount, updated.Amount)
	assert.Equal(t, before.Specifications, updated.Specifications)
	assert.Equal(t, "NZXT Kraken 240", updated.Name)
	assert.Equal(t, model.CategoryCooling, updated.Category)
	assert.True(t, store.Dirty())
}

func TestUpdate_IndexOutOfBounds(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	for _, index := range []int{-1, 2, 100} {
		_, err := store.Update(index, validDraft())
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.False(t, store.Dirty())
}

func TestRemove_NothingChangesUntilConfirmed(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, gate, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	pending, err := store.Remove(0)
	require.NoError(t, err)
	assert.Len(t, store.Products(), 2, "no mutation before confirmation")
	assert.False(t, store.Dirty())

	require.NoError(t, gate.Confirm(pending.Token))
	products := store.Products()
	assert.Len(t, products, 1)
	assert.Equal(t, int64(2), products[0].ID)
	assert.True(t, store.Dirty())
}

func TestRemove_DeclinePerformsNoMutation(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, gate, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	pending, err := store.Remove(1)
	require.NoError(t, err)

	gate.Decline()
	assert.ErrorIs(t, gate.Confirm(pending.Token), ErrNoPendingAction)
	assert.Len(t, store.Products(), 2)
	assert.False(t, store.Dirty())
}

func TestRemove_IndexOutOfBounds(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	_, err := store.Remove(5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_StaleConfirmationAfterCatalogShrank(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, gate, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	_, err := store.Create(validDraft())
	require.NoError(t, err)

	pending, err := store.Remove(2)
	require.NoError(t, err)

	// the row the pending action pointed at is gone by the time the
	// confirmation arrives
	store.Discard(context.Background())

	assert.ErrorIs(t, gate.Confirm(pending.Token), ErrNotFound)
	assert.Len(t, store.Products(), 2)
}

func TestCommit_PublishesAndMarksAdminEdited(t *testing.T) {
	repo := &MockCatalogRepository{}
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(repo, source)
	store.Load(context.Background())

	_, err := store.Create(validDraft())
	require.NoError(t, err)

	require.NoError(t, store.Commit(context.Background()))

	assert.Len(t, repo.Working, 3)
	assert.Equal(t, repo.Working, repo.Published)
	require.NotNil(t, repo.Prov)
	assert.Equal(t, model.ProvenanceAdminEdited, repo.Prov.Kind)
	assert.Nil(t, repo.Prov.FetchedAt)
	assert.False(t, store.Dirty())
}

func TestCommit_Idempotent(t *testing.T) {
	repo := &MockCatalogRepository{}
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(repo, source)
	store.Load(context.Background())

	require.NoError(t, store.Commit(context.Background()))
	published := repo.Published
	assert.False(t, store.Dirty())

	require.NoError(t, store.Commit(context.Background()))
	assert.Equal(t, published, repo.Published)
	assert.False(t, store.Dirty())
}

func TestDiscard_RestoresOriginalSnapshot(t *testing.T) {
	repo := &MockCatalogRepository{}
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, gate, _ := newStore(repo, source)
	store.Load(context.Background())
	original := store.Products()

	_, err := store.Create(validDraft())
	require.NoError(t, err)
	_, err = store.Update(0, validDraft())
	require.NoError(t, err)
	pending, err := store.Remove(1)
	require.NoError(t, err)
	require.NoError(t, gate.Confirm(pending.Token))

	store.Discard(context.Background())

	assert.Equal(t, original, store.Products())
	assert.False(t, store.Dirty())
	assert.Equal(t, 1, repo.Cleared)

	// the published slot is repopulated from the source with fresh provenance
	assert.Equal(t, sampleCatalog(), repo.Published)
	require.NotNil(t, repo.Prov)
	assert.Equal(t, model.ProvenanceServerFresh, repo.Prov.Kind)
	assert.NotNil(t, repo.Prov.FetchedAt)
}

func TestDiscard_SnapshotDoesNotAliasWorkingSet(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	// mutate nested state through an update; the original snapshot must be
	// untouched by edits to the working set
	draft := validDraft()
	_, err := store.Update(0, draft)
	require.NoError(t, err)

	store.Discard(context.Background())
	assert.Equal(t, "AMD Ryzen 7 7800X3D", store.Products()[0].Name)
}

func TestRequestDiscard_GoesThroughConfirmGate(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, gate, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	_, err := store.Create(validDraft())
	require.NoError(t, err)

	pending := store.RequestDiscard()
	assert.Len(t, store.Products(), 3, "no mutation before confirmation")

	require.NoError(t, gate.Confirm(pending.Token))
	assert.Len(t, store.Products(), 2)
	assert.False(t, store.Dirty())
}

func TestPublished_ServesStoredCatalogWithProvenance(t *testing.T) {
	repo := &MockCatalogRepository{
		Published:    sampleCatalog(),
		HasPublished: true,
		Prov:         &model.Provenance{Kind: model.ProvenanceAdminEdited},
	}
	source := &MockCatalogClient{Products: []model.Product{{ID: 99, Name: "should not appear"}}}
	store, _, _ := newStore(repo, source)

	products, prov, err := store.Published(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, source.Calls)
	assert.Equal(t, sampleCatalog(), products)
	require.NotNil(t, prov)
	assert.Equal(t, model.ProvenanceAdminEdited, prov.Kind)
}

func TestPublished_RepopulatesEmptySlotFromSource(t *testing.T) {
	repo := &MockCatalogRepository{}
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(repo, source)

	products, prov, err := store.Published(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.Calls)
	assert.Equal(t, sampleCatalog(), products)
	assert.Equal(t, sampleCatalog(), repo.Published)
	require.NotNil(t, prov)
	assert.Equal(t, model.ProvenanceServerFresh, prov.Kind)
}

func TestRefresh_PublishesServerFresh(t *testing.T) {
	repo := &MockCatalogRepository{}
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(repo, source)
	store.Load(context.Background())
	source.Calls = 0

	fresh := store.Refresh(context.Background())

	assert.Equal(t, 1, source.Calls)
	assert.Equal(t, sampleCatalog(), fresh)
	assert.Equal(t, sampleCatalog(), repo.Published)
	require.NotNil(t, repo.Prov)
	assert.Equal(t, model.ProvenanceServerFresh, repo.Prov.Kind)
}

func TestRefresh_FallsBackToWorkingSetOnError(t *testing.T) {
	source := &MockCatalogClient{Products: sampleCatalog()}
	store, _, _ := newStore(&MockCatalogRepository{}, source)
	store.Load(context.Background())

	source.Err = errors.New("connection refused")
	fresh := store.Refresh(context.Background())

	assert.Equal(t, sampleCatalog(), fresh)
}
