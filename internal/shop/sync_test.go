package shop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/store"
)

type fakeMirror struct {
	mu      sync.Mutex
	pushes  int
	fetched []domain.ShopProduct
	last    []domain.ShopProduct
}

func (f *fakeMirror) Fetch(ctx context.Context) ([]domain.ShopProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetched, nil
}

func (f *fakeMirror) Push(ctx context.Context, products []domain.ShopProduct) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes++
	f.last = products
	return nil
}

func (f *fakeMirror) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes
}

func newTestStore(t *testing.T) (*CatalogStore, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	s := NewCatalogStore(mem, EventBus.New(), nil, 0)
	s.Load(context.Background())
	return s, mem
}

func seedLocal(t *testing.T, mem *store.MemoryStore, version string, products []domain.ShopProduct) {
	t.Helper()
	data, err := json.Marshal(products)
	require.NoError(t, err)
	require.NoError(t, mem.Put(stateBucket, productsKey, data))
	require.NoError(t, mem.Put(stateBucket, versionKey, []byte(version)))
}

func TestLoadWithoutLocalStateUsesSource(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, len(SourceProducts()), len(s.Products()))
}

func TestLoadMergesLocalOverlay(t *testing.T) {
	source := SourceProducts()
	require.NotEmpty(t, source)

	edited := source[0]
	edited.Name = "Nom modifié par l'opérateur"
	edited.Image = "" // empty falls back to the source image
	custom := domain.ShopProduct{
		ID: "PRD-TEST", Slug: "produit-maison", Name: "Produit maison",
		Category: "towing", Description: "Créé à la main",
	}

	mem := store.NewMemoryStore()
	seedLocal(t, mem, "2", []domain.ShopProduct{edited, custom})

	s := NewCatalogStore(mem, EventBus.New(), nil, 0)
	s.Load(context.Background())

	merged := s.Products()
	require.Len(t, merged, 2)

	// operator edit wins, empty imagery heals from source
	assert.Equal(t, "Nom modifié par l'opérateur", merged[0].Name)
	assert.Equal(t, source[0].Image, merged[0].Image)

	// operator-created product survives untouched
	assert.Equal(t, "PRD-TEST", merged[1].ID)
	assert.Equal(t, "Produit maison", merged[1].Name)

	// source products the operator removed stay removed
	for _, p := range merged {
		assert.NotEqual(t, source[1].ID, p.ID)
	}
}

func TestLoadMigratesStaleSchema(t *testing.T) {
	source := SourceProducts()
	edited := source[0]
	edited.Name = "Ancien format"
	edited.Gallery = nil

	mem := store.NewMemoryStore()
	seedLocal(t, mem, "1", []domain.ShopProduct{edited})

	s := NewCatalogStore(mem, EventBus.New(), nil, 0)
	s.Load(context.Background())

	merged := s.Products()
	require.Len(t, merged, 1)
	assert.Equal(t, "Ancien format", merged[0].Name)

	// marker reset to the current version
	raw, err := mem.Get(stateBucket, versionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", string(raw))
}

func TestLoadWritesMigratedPayloadBack(t *testing.T) {
	source := SourceProducts()
	edited := source[0]
	edited.Name = "Ancien format"
	edited.Gallery = nil
	edited.Features = nil
	edited.Specs = nil

	mem := store.NewMemoryStore()
	seedLocal(t, mem, "1", []domain.ShopProduct{edited})

	s := NewCatalogStore(mem, EventBus.New(), nil, 0)
	s.Load(context.Background())

	// the payload on disk must match the marker the migration rewrote
	raw, err := mem.Get(stateBucket, productsKey)
	require.NoError(t, err)
	var persisted []domain.ShopProduct
	require.NoError(t, json.Unmarshal(raw, &persisted))
	require.Len(t, persisted, 1)
	assert.NotNil(t, persisted[0].Features)
	assert.NotNil(t, persisted[0].Specs)

	// a restart reads a current-version payload and skips the migration,
	// so the backfilled fields have to come from the stored bytes
	restarted := NewCatalogStore(mem, EventBus.New(), nil, 0)
	restarted.Load(context.Background())
	merged := restarted.Products()
	require.Len(t, merged, 1)
	assert.Equal(t, "Ancien format", merged[0].Name)
	assert.NotNil(t, merged[0].Features)
	assert.NotNil(t, merged[0].Specs)
}

func TestLoadDiscardsUnknownSchemaVersion(t *testing.T) {
	source := SourceProducts()
	edited := source[0]
	edited.Name = "Sera jeté"

	mem := store.NewMemoryStore()
	seedLocal(t, mem, "99", []domain.ShopProduct{edited})

	s := NewCatalogStore(mem, EventBus.New(), nil, 0)
	s.Load(context.Background())

	// the stale payload is wiped and the source catalog takes over
	merged := s.Products()
	assert.Equal(t, len(source), len(merged))
	for _, p := range merged {
		assert.NotEqual(t, "Sera jeté", p.Name)
	}

	_, err := mem.Get(stateBucket, productsKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddProductGeneratesIdentity(t *testing.T) {
	s, _ := newTestStore(t)
	before := len(s.Products())

	created := s.AddProduct(domain.ShopProduct{
		Name: "Élingue spéciale", Category: "handling", Description: "x",
	})
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "elingue-speciale", created.Slug)
	assert.Len(t, s.Products(), before+1)
}

func TestUpdateProductUnknownID(t *testing.T) {
	s, _ := newTestStore(t)
	assert.False(t, s.UpdateProduct("GONE-404", domain.ShopProduct{Name: "x"}))
}

func TestDeleteAndDuplicateProduct(t *testing.T) {
	s, _ := newTestStore(t)
	source := s.Products()
	target := source[0]

	copied, found := s.DuplicateProduct(target.ID)
	require.True(t, found)
	assert.NotEqual(t, target.ID, copied.ID)
	assert.Equal(t, target.Name+" (copie)", copied.Name)
	assert.Equal(t, target.Slug+"-copie", copied.Slug)
	assert.Len(t, s.Products(), len(source)+1)

	assert.True(t, s.DeleteProduct(copied.ID))
	assert.False(t, s.DeleteProduct(copied.ID), "second delete is a no-op")
	assert.Len(t, s.Products(), len(source))
}

func TestReorderProduct(t *testing.T) {
	s, _ := newTestStore(t)
	products := s.Products()
	require.GreaterOrEqual(t, len(products), 2)

	first := products[0].ID
	second := products[1].ID

	// the first product moving up is a legal no-op, not a lookup failure
	moved, found := s.ReorderProduct(first, "up")
	assert.False(t, moved)
	assert.True(t, found)

	moved, found = s.ReorderProduct(first, "down")
	assert.True(t, moved)
	assert.True(t, found)

	after := s.Products()
	assert.Equal(t, second, after[0].ID)
	assert.Equal(t, first, after[1].ID)

	moved, found = s.ReorderProduct("GONE-404", "down")
	assert.False(t, moved)
	assert.False(t, found)
}

func TestImportJSONRejectsNonList(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.Products()

	assert.Error(t, s.ImportJSON([]byte(`{"id":"X"}`)))
	assert.Error(t, s.ImportJSON([]byte(`"just a string"`)))
	assert.Equal(t, len(before), len(s.Products()), "rejected import leaves catalog unchanged")

	require.NoError(t, s.ImportJSON([]byte(`[{"id":"A-1","slug":"a","name":"A","category":"towing","description":"d"}]`)))
	assert.Len(t, s.Products(), 1)
}

func TestResetToDefaults(t *testing.T) {
	s, mem := newTestStore(t)
	s.AddProduct(domain.ShopProduct{Name: "Temporaire", Category: "gse", Description: "x"})

	s.ResetToDefaults()
	assert.Equal(t, len(SourceProducts()), len(s.Products()))

	_, err := mem.Get(stateBucket, productsKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDebouncedMirrorPushCoalesces(t *testing.T) {
	mem := store.NewMemoryStore()
	fake := &fakeMirror{}
	s := NewCatalogStore(mem, EventBus.New(), fake, 30*time.Millisecond)
	s.Load(context.Background())
	defer s.Stop()

	// A burst of edits within the quiet period yields a single push.
	s.AddProduct(domain.ShopProduct{Name: "Un", Category: "towing", Description: "x"})
	s.AddProduct(domain.ShopProduct{Name: "Deux", Category: "towing", Description: "x"})
	s.AddProduct(domain.ShopProduct{Name: "Trois", Category: "towing", Description: "x"})

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 1, fake.pushCount())

	// The next mutation re-arms the debounce for a fresh push.
	s.AddProduct(domain.ShopProduct{Name: "Quatre", Category: "towing", Description: "x"})
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, 2, fake.pushCount())

	fake.mu.Lock()
	pushed := len(fake.last)
	fake.mu.Unlock()
	assert.Equal(t, len(s.Products()), pushed, "push carries the full merged catalog")
}
