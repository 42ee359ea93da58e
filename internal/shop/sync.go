package shop

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/store"
)

const (
	stateBucket = "shop"
	productsKey = "products"
	versionKey  = "products_version"

	// TopicCatalogChanged is published on every catalog mutation; the
	// debounced mirror push is armed by the subscription.
	TopicCatalogChanged = "catalog.changed"
)

// Mirror is the remote catalog endpoint. Read failures fall back to local
// data; write failures are logged and superseded by the next push.
type Mirror interface {
	Fetch(ctx context.Context) ([]domain.ShopProduct, error)
	Push(ctx context.Context, products []domain.ShopProduct) error
}

// CatalogStore owns the merged, operator-editable product catalog. It
// reconciles three layers: the shipped source catalog, the locally
// persisted operator edits, and a remote mirror receiving debounced pushes.
// All mutations are synchronous; only I/O is asynchronous.
type CatalogStore struct {
	mu       sync.Mutex
	products []domain.ShopProduct
	source   []domain.ShopProduct

	storage  store.Store
	bus      EventBus.Bus
	mirror   Mirror
	debounce time.Duration

	timerMu sync.Mutex
	timer   *time.Timer
}

func NewCatalogStore(storage store.Store, bus EventBus.Bus, mirror Mirror, debounce time.Duration) *CatalogStore {
	s := &CatalogStore{
		storage:  storage,
		bus:      bus,
		mirror:   mirror,
		debounce: debounce,
	}
	if bus != nil {
		_ = bus.Subscribe(TopicCatalogChanged, s.armPush)
	}
	return s
}

// Load builds the merged catalog: version check, forward migrations, then
// source/local merge. With no usable local payload the catalog is the
// source catalog, optionally superseded by a successful mirror read.
func (s *CatalogStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = SourceProducts()

	stored, ok := s.loadLocal()
	if !ok {
		s.products = cloneProducts(s.source)
		if s.mirror != nil {
			remote, err := s.mirror.Fetch(ctx)
			if err != nil {
				zap.L().Warn("mirror read failed, using source catalog", zap.Error(err))
			} else if len(remote) > 0 {
				s.products = remote
				zap.L().Info("catalog loaded from mirror", zap.Int("count", len(remote)))
			}
		}
		return
	}

	s.products = mergeCatalog(s.source, stored)
	zap.L().Info("catalog merged from local state",
		zap.Int("stored", len(stored)),
		zap.Int("merged", len(s.products)))
}

// loadLocal reads the locally persisted catalog, honoring the version
// marker. A stale version is migrated forward and written back when a
// migration path exists and discarded otherwise; the marker is reset
// either way.
func (s *CatalogStore) loadLocal() ([]domain.ShopProduct, bool) {
	storedVersion := 0
	if raw, err := s.storage.Get(stateBucket, versionKey); err == nil {
		storedVersion = cast.ToInt(string(raw))
	}

	raw, err := s.storage.Get(stateBucket, productsKey)
	if err != nil {
		s.writeVersionMarker()
		return nil, false
	}

	var stored []domain.ShopProduct
	if err := json.Unmarshal(raw, &stored); err != nil {
		zap.L().Warn("discarding unreadable local catalog", zap.Error(err))
		_ = s.storage.Delete(stateBucket, productsKey)
		s.writeVersionMarker()
		return nil, false
	}

	if storedVersion != CurrentSchemaVersion {
		migrated, ok := migrate(stored, storedVersion)
		if !ok {
			zap.L().Info("local catalog schema is stale with no migration path, discarding",
				zap.Int("stored_version", storedVersion),
				zap.Int("current_version", CurrentSchemaVersion))
			_ = s.storage.Delete(stateBucket, productsKey)
			s.writeVersionMarker()
			return nil, false
		}
		stored = migrated
		// The marker now claims the current version, so the payload it
		// guards must be the migrated one.
		if data, err := json.Marshal(stored); err != nil {
			zap.L().Error("failed to encode migrated catalog", zap.Error(err))
		} else if err := s.storage.Put(stateBucket, productsKey, data); err != nil {
			zap.L().Warn("failed to persist migrated catalog", zap.Error(err))
		}
		s.writeVersionMarker()
	}

	return stored, true
}

func (s *CatalogStore) writeVersionMarker() {
	if err := s.storage.Put(stateBucket, versionKey, []byte(cast.ToString(CurrentSchemaVersion))); err != nil {
		zap.L().Warn("failed to write catalog version marker", zap.Error(err))
	}
}

// mergeCatalog overlays the locally stored records on the source catalog.
// Operator edits win; image and gallery fall back to the source value only
// when the stored value is empty, so records that never had imagery are
// healed without overwriting imagery an operator has set. Stored records
// with no source counterpart are kept as-is.
func mergeCatalog(source, stored []domain.ShopProduct) []domain.ShopProduct {
	sourceByID := make(map[string]domain.ShopProduct, len(source))
	for _, p := range source {
		sourceByID[p.ID] = p
	}

	merged := make([]domain.ShopProduct, 0, len(stored))
	for _, sp := range stored {
		src, ok := sourceByID[sp.ID]
		if !ok {
			merged = append(merged, sp)
			continue
		}
		m := sp
		if m.Image == "" {
			m.Image = src.Image
		}
		if len(m.Gallery) == 0 {
			m.Gallery = src.Gallery
		}
		merged = append(merged, m)
	}
	return merged
}

func cloneProducts(products []domain.ShopProduct) []domain.ShopProduct {
	return append([]domain.ShopProduct(nil), products...)
}

// Products returns a copy of the merged catalog in display order.
func (s *CatalogStore) Products() []domain.ShopProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.products)
}

func (s *CatalogStore) ProductByID(id string) (domain.ShopProduct, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.ShopProduct{}, false
}

// ProductBySlug finds a product by slug, falling back to id match.
func (s *CatalogStore) ProductBySlug(slug string) (domain.ShopProduct, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Slug == slug || p.ID == slug {
			return p, true
		}
	}
	return domain.ShopProduct{}, false
}

// AddProduct appends a product, generating id and slug when absent.
func (s *CatalogStore) AddProduct(p domain.ShopProduct) domain.ShopProduct {
	s.mu.Lock()
	if p.ID == "" {
		p.ID = GenerateID(p.Category)
	}
	if p.Slug == "" {
		p.Slug = GenerateSlug(p.Name)
	}
	s.products = append(s.products, p)
	s.persistLocked()
	s.mu.Unlock()

	s.catalogChanged()
	return p
}

// UpdateProduct replaces the record with the given id. Unknown ids are a
// no-op returning false.
func (s *CatalogStore) UpdateProduct(id string, p domain.ShopProduct) bool {
	s.mu.Lock()
	found := false
	for i := range s.products {
		if s.products[i].ID == id {
			p.ID = id
			s.products[i] = p
			found = true
			break
		}
	}
	if found {
		s.persistLocked()
	}
	s.mu.Unlock()

	if found {
		s.catalogChanged()
	}
	return found
}

// DeleteProduct removes a record. Deletion is always an explicit operator
// action; nothing deletes products implicitly.
func (s *CatalogStore) DeleteProduct(id string) bool {
	s.mu.Lock()
	found := false
	next := s.products[:0]
	for _, p := range s.products {
		if p.ID == id {
			found = true
			continue
		}
		next = append(next, p)
	}
	s.products = next
	if found {
		s.persistLocked()
	}
	s.mu.Unlock()

	if found {
		s.catalogChanged()
	}
	return found
}

// DuplicateProduct copies a record under a fresh id with a marked slug
// and name.
func (s *CatalogStore) DuplicateProduct(id string) (domain.ShopProduct, bool) {
	s.mu.Lock()
	var copied domain.ShopProduct
	found := false
	for _, p := range s.products {
		if p.ID == id {
			copied = p
			copied.ID = GenerateID(p.Category)
			copied.Slug = p.Slug + "-copie"
			copied.Name = p.Name + " (copie)"
			s.products = append(s.products, copied)
			found = true
			break
		}
	}
	if found {
		s.persistLocked()
	}
	s.mu.Unlock()

	if found {
		s.catalogChanged()
	}
	return copied, found
}

// ReorderProduct moves a record one position up or down in display order.
// Moving past the list edge is a no-op with found still true, distinct from
// an unknown id.
func (s *CatalogStore) ReorderProduct(id, direction string) (moved, found bool) {
	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		found = true
		target := i + 1
		if direction == "up" {
			target = i - 1
		}
		if target >= 0 && target < len(s.products) {
			s.products[i], s.products[target] = s.products[target], s.products[i]
			moved = true
		}
		break
	}
	if moved {
		s.persistLocked()
	}
	s.mu.Unlock()

	if moved {
		s.catalogChanged()
	}
	return moved, found
}

// ExportJSON serializes the full catalog as a downloadable snapshot.
func (s *CatalogStore) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.products, "", "  ")
}

// ImportJSON replaces the entire catalog with the snapshot. Only a JSON
// list is accepted; anything else leaves the catalog unchanged. This is a
// deliberate wholesale replace, distinct from the load-time merge.
func (s *CatalogStore) ImportJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		return errInvalidSnapshot
	}
	var imported []domain.ShopProduct
	if err := json.Unmarshal(data, &imported); err != nil {
		return errInvalidSnapshot
	}

	s.mu.Lock()
	s.products = imported
	s.persistLocked()
	s.mu.Unlock()

	s.catalogChanged()
	return nil
}

// ResetToDefaults drops the local payload and restores the shipped source
// catalog.
func (s *CatalogStore) ResetToDefaults() {
	s.mu.Lock()
	if err := s.storage.Delete(stateBucket, productsKey); err != nil {
		zap.L().Warn("failed to drop local catalog", zap.Error(err))
	}
	s.products = cloneProducts(s.source)
	s.mu.Unlock()

	s.catalogChanged()
}

// RefreshFromMirror re-reads the mirror and adopts its product list,
// persisting it locally. Used by the periodic reconciliation job; a failed
// read keeps local data authoritative.
func (s *CatalogStore) RefreshFromMirror(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}
	remote, err := s.mirror.Fetch(ctx)
	if err != nil {
		zap.L().Warn("mirror refresh failed, local catalog stays authoritative", zap.Error(err))
		return err
	}
	if len(remote) == 0 {
		return nil
	}

	s.mu.Lock()
	s.products = remote
	s.persistLocked()
	s.mu.Unlock()

	zap.L().Info("catalog refreshed from mirror", zap.Int("count", len(remote)))
	return nil
}

// persistLocked writes the full catalog to the local store. Best-effort:
// in-memory state is the source of truth for the session.
func (s *CatalogStore) persistLocked() {
	data, err := json.Marshal(s.products)
	if err != nil {
		zap.L().Error("failed to encode catalog", zap.Error(err))
		return
	}
	if err := s.storage.Put(stateBucket, productsKey, data); err != nil {
		zap.L().Warn("failed to persist catalog", zap.Error(err))
	}
	s.writeVersionMarker()
}

func (s *CatalogStore) catalogChanged() {
	if s.bus != nil {
		s.bus.Publish(TopicCatalogChanged)
	}
}

// armPush restarts the debounce timer. Rapid successive edits coalesce
// into a single mirror write after the quiet period; a pending push is
// superseded, not cancelled.
func (s *CatalogStore) armPush() {
	if s.mirror == nil || s.debounce <= 0 {
		return
	}
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.pushNow)
}

func (s *CatalogStore) pushNow() {
	products := s.Products()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.mirror.Push(ctx, products); err != nil {
		// Not retried here; the next mutation re-arms the debounce
		// and the superseding push wins.
		zap.L().Warn("mirror push failed", zap.Error(err), zap.Int("count", len(products)))
		return
	}
	zap.L().Info("catalog pushed to mirror", zap.Int("count", len(products)))
}

// Stop cancels a pending debounced push, if any.
func (s *CatalogStore) Stop() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
