package quote

import (
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/store"
)

const (
	stateBucket = "quote"
	cartKey     = "cart"

	// exportVersion tags exported configuration files so older exports
	// can be rejected or migrated on import.
	exportVersion = 2
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errInvalidExport = errors.New("configuration export has an unknown format")

// cartState is the persisted shape of the in-progress quote.
type cartState struct {
	Items  []domain.QuoteLine    `json:"items"`
	Config *domain.Configuration `json:"config,omitempty"`
}

// ExportedConfig is the downloadable quote configuration file.
type ExportedConfig struct {
	Version    int                   `json:"version"`
	ExportedAt string                `json:"exportedAt"`
	Current    *domain.Configuration `json:"current,omitempty"`
	Items      []domain.QuoteLine    `json:"items"`
}

// SubmissionItem is one line of the quote request wire contract sent to the
// sales inbox and persisted with the submission record.
type SubmissionItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	PriceDisplay string `json:"price_display"`
}

// Stats summarizes the current quote for the admin dashboard.
type Stats struct {
	Lines         int     `json:"lines"`
	TotalQuantity int     `json:"totalQuantity"`
	Helicopters   int     `json:"helicopters"`
	Zones         int     `json:"zones"`
	MeanQuantity  float64 `json:"meanQuantity"`
	MaxQuantity   float64 `json:"maxQuantity"`
}

// Store accumulates quote lines across the session. Line identity is the
// (part id, zone id) pair: adding the same part in the same zone increments
// quantity, the same part in another zone is a separate line. State is
// persisted best-effort after every mutation; the in-memory view is
// authoritative for the session.
type Store struct {
	mu      sync.Mutex
	items   []domain.QuoteLine
	config  *domain.Configuration
	storage store.Store
}

func NewStore(storage store.Store) *Store {
	return &Store{storage: storage}
}

// Load restores the persisted cart. An unreadable payload starts empty.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(stateBucket, cartKey)
	if err != nil {
		return
	}
	var state cartState
	if err := json.Unmarshal(raw, &state); err != nil {
		zap.L().Warn("discarding unreadable quote cart", zap.Error(err))
		return
	}
	s.items = state.Items
	s.config = state.Config
}

func (s *Store) persistLocked() {
	data, err := json.Marshal(cartState{Items: s.items, Config: s.config})
	if err != nil {
		zap.L().Error("failed to encode quote cart", zap.Error(err))
		return
	}
	if err := s.storage.Put(stateBucket, cartKey, data); err != nil {
		zap.L().Warn("failed to persist quote cart", zap.Error(err))
	}
}

func (s *Store) findLocked(partID, zoneID string) int {
	for i := range s.items {
		if s.items[i].Part.ID == partID && s.items[i].ZoneID == zoneID {
			return i
		}
	}
	return -1
}

// AddItem merges a selection into the quote. An existing (part, zone) line
// has its quantity incremented; otherwise a new line is appended with the
// part snapshot frozen as of now.
func (s *Store) AddItem(line domain.QuoteLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findLocked(line.Part.ID, line.ZoneID); i >= 0 {
		s.items[i].Quantity += line.Quantity
	} else {
		s.items = append(s.items, line)
	}
	s.persistLocked()
}

// RemoveItem drops the line for the given pair. Removing an absent pair is
// a no-op.
func (s *Store) RemoveItem(partID, zoneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(partID, zoneID)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistLocked()
}

// UpdateQuantity sets the quantity for the given pair. A quantity below one
// removes the line entirely.
func (s *Store) UpdateQuantity(partID, zoneID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLocked(partID, zoneID)
	if i < 0 {
		return
	}
	if quantity < 1 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity = quantity
	}
	s.persistLocked()
}

// Clear empties the quote and drops the current helicopter context.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.config = nil
	s.persistLocked()
}

// SetCurrentConfig records the helicopter the operator is configuring.
func (s *Store) SetCurrentConfig(cfg domain.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &cfg
	s.persistLocked()
}

func (s *Store) ClearCurrentConfig() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = nil
	s.persistLocked()
}

func (s *Store) CurrentConfig() (domain.Configuration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return domain.Configuration{}, false
	}
	return *s.config, true
}

// Items returns a copy of the quote lines in insertion order.
func (s *Store) Items() []domain.QuoteLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.QuoteLine(nil), s.items...)
}

// ItemsByHelicopter groups lines by helicopter id, preserving line order
// within each group.
func (s *Store) ItemsByHelicopter() map[string][]domain.QuoteLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make(map[string][]domain.QuoteLine)
	for _, line := range s.items {
		groups[line.HelicopterID] = append(groups[line.HelicopterID], line)
	}
	return groups
}

func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.items {
		total += line.Quantity
	}
	return total
}

// ZoneCount counts distinct (helicopter, zone) pairs covered by the quote.
// A non-empty helicopterID restricts the count to that helicopter's zones.
func (s *Store) ZoneCount(helicopterID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	for _, line := range s.items {
		if helicopterID != "" && line.HelicopterID != helicopterID {
			continue
		}
		seen[line.HelicopterID+"|"+line.ZoneID] = struct{}{}
	}
	return len(seen)
}

// ExportConfig serializes the quote as a versioned configuration file.
func (s *Store) ExportConfig() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items
	if items == nil {
		items = []domain.QuoteLine{}
	}
	return json.MarshalIndent(ExportedConfig{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Current:    s.config,
		Items:      items,
	}, "", "  ")
}

// ImportConfig replaces the quote with the items of an exported
// configuration file. Unknown versions are rejected.
func (s *Store) ImportConfig(data []byte) error {
	var cfg ExportedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return errInvalidExport
	}
	if cfg.Version != exportVersion || cfg.Items == nil {
		return errInvalidExport
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cfg.Items
	s.config = cfg.Current
	s.persistLocked()
	return nil
}

// SubmissionItems flattens the quote into the submission wire contract.
func (s *Store) SubmissionItems() []SubmissionItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]SubmissionItem, 0, len(s.items))
	for _, line := range s.items {
		items = append(items, SubmissionItem{
			ID:           line.Part.ID,
			Name:         line.Part.Name,
			Category:     line.Part.Category,
			Quantity:     line.Quantity,
			PriceDisplay: line.Part.PriceDisplay,
		})
	}
	return items
}

// Statistics computes dashboard numbers over the current quote.
func (s *Store) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := Stats{Lines: len(s.items)}
	helis := make(map[string]struct{})
	zones := make(map[string]struct{})
	quantities := make([]float64, 0, len(s.items))
	for _, line := range s.items {
		result.TotalQuantity += line.Quantity
		helis[line.HelicopterID] = struct{}{}
		zones[line.HelicopterID+"|"+line.ZoneID] = struct{}{}
		quantities = append(quantities, float64(line.Quantity))
	}
	result.Helicopters = len(helis)
	result.Zones = len(zones)
	if len(quantities) > 0 {
		result.MeanQuantity, _ = stats.Mean(quantities)
		result.MaxQuantity, _ = stats.Max(quantities)
	}
	return result
}
