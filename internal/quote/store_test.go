package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/store"
)

func line(partID, zoneID string, qty int) domain.QuoteLine {
	return domain.QuoteLine{
		Part: domain.PartSnapshot{
			ID: partID, Name: "Part " + partID, Category: "towing",
			PriceDisplay: "SUR DEVIS",
		},
		HelicopterID:   "h125",
		HelicopterName: "H125",
		ZoneID:         zoneID,
		ZoneName:       "Zone " + zoneID,
		Quantity:       qty,
	}
}

func newTestStore() *Store {
	return NewStore(store.NewMemoryStore())
}

func TestAddItemMergesSamePair(t *testing.T) {
	s := newTestStore()

	s.AddItem(line("br-h125", "skid-front", 1))
	s.AddItem(line("br-h125", "skid-front", 2))

	items := s.Items()
	require.Len(t, items, 1, "same (part, zone) pair merges into one line")
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItemSamePartDifferentZone(t *testing.T) {
	s := newTestStore()

	s.AddItem(line("br-h125", "skid-front", 1))
	s.AddItem(line("br-h125", "skid-rear", 1))

	assert.Equal(t, 2, s.LineCount(), "same part in another zone is a distinct line")
	assert.Equal(t, 2, s.ZoneCount(""))
	assert.Equal(t, 2, s.ZoneCount("h125"))
	assert.Equal(t, 0, s.ZoneCount("h145"))
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestStore()
	s.AddItem(line("br-h125", "skid-front", 2))

	s.UpdateQuantity("br-h125", "skid-front", 5)
	assert.Equal(t, 5, s.Items()[0].Quantity)

	// quantity below one removes the line
	s.UpdateQuantity("br-h125", "skid-front", 0)
	assert.Equal(t, 0, s.LineCount())

	// updating an absent pair is a no-op
	s.UpdateQuantity("br-h125", "skid-front", 3)
	assert.Equal(t, 0, s.LineCount())
}

func TestRemoveItemIdempotent(t *testing.T) {
	s := newTestStore()
	s.AddItem(line("br-h125", "skid-front", 1))

	s.RemoveItem("br-h125", "skid-front")
	assert.Equal(t, 0, s.LineCount())
	s.RemoveItem("br-h125", "skid-front")
	assert.Equal(t, 0, s.LineCount())
}

func TestClearDropsItemsAndConfig(t *testing.T) {
	s := newTestStore()
	s.SetCurrentConfig(domain.Configuration{HelicopterID: "h125", HelicopterName: "H125"})
	s.AddItem(line("br-h125", "skid-front", 1))

	s.Clear()
	assert.Equal(t, 0, s.LineCount())
	_, found := s.CurrentConfig()
	assert.False(t, found)
}

func TestClearCurrentConfigOnly(t *testing.T) {
	s := newTestStore()
	s.SetCurrentConfig(domain.Configuration{HelicopterID: "h125", HelicopterName: "H125"})
	s.AddItem(line("br-h125", "skid-front", 1))

	s.ClearCurrentConfig()
	_, found := s.CurrentConfig()
	assert.False(t, found)
	assert.Equal(t, 1, s.LineCount(), "clearing the context keeps the quote lines")
}

func TestSnapshotIsFrozenAtAddTime(t *testing.T) {
	s := newTestStore()
	l := line("br-h125", "skid-front", 1)
	l.Part.Name = "Nom initial"
	s.AddItem(l)

	// mutating the caller's copy afterwards never touches the stored line
	l.Part.Name = "Nom changé"
	assert.Equal(t, "Nom initial", s.Items()[0].Part.Name)
}

func TestPersistenceRoundTrip(t *testing.T) {
	mem := store.NewMemoryStore()

	s := NewStore(mem)
	s.AddItem(line("br-h125", "skid-front", 2))
	s.SetCurrentConfig(domain.Configuration{HelicopterID: "h125", HelicopterName: "H125"})

	reloaded := NewStore(mem)
	reloaded.Load()
	require.Equal(t, 1, reloaded.LineCount())
	assert.Equal(t, 2, reloaded.Items()[0].Quantity)
	cfg, found := reloaded.CurrentConfig()
	require.True(t, found)
	assert.Equal(t, "h125", cfg.HelicopterID)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestStore()
	s.AddItem(line("br-h125", "skid-front", 2))
	s.AddItem(line("rl-skid", "skid-rear", 1))
	s.SetCurrentConfig(domain.Configuration{HelicopterID: "h125", HelicopterName: "H125"})

	data, err := s.ExportConfig()
	require.NoError(t, err)

	var exported ExportedConfig
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, exportVersion, exported.Version)
	assert.NotEmpty(t, exported.ExportedAt)
	assert.Len(t, exported.Items, 2)

	other := newTestStore()
	require.NoError(t, other.ImportConfig(data))
	assert.Equal(t, s.Items(), other.Items())
	cfg, found := other.CurrentConfig()
	require.True(t, found)
	assert.Equal(t, "h125", cfg.HelicopterID)
}

func TestImportConfigRejectsUnknownFormat(t *testing.T) {
	s := newTestStore()
	assert.Error(t, s.ImportConfig([]byte(`not json`)))
	assert.Error(t, s.ImportConfig([]byte(`{"version":99,"items":[]}`)))
	assert.Error(t, s.ImportConfig([]byte(`{"version":2}`)), "missing items list")
}

func TestSubmissionItems(t *testing.T) {
	s := newTestStore()
	s.AddItem(line("br-h125", "skid-front", 3))

	items := s.SubmissionItems()
	require.Len(t, items, 1)
	assert.Equal(t, SubmissionItem{
		ID:           "br-h125",
		Name:         "Part br-h125",
		Category:     "towing",
		Quantity:     3,
		PriceDisplay: "SUR DEVIS",
	}, items[0])
}

func TestStatistics(t *testing.T) {
	s := newTestStore()
	s.AddItem(line("br-h125", "skid-front", 2))
	s.AddItem(line("rl-skid", "skid-rear", 4))
	other := line("vr-belly", "belly", 3)
	other.HelicopterID = "h145"
	s.AddItem(other)

	got := s.Statistics()
	assert.Equal(t, 3, got.Lines)
	assert.Equal(t, 9, got.TotalQuantity)
	assert.Equal(t, 2, got.Helicopters)
	assert.Equal(t, 3, got.Zones)
	assert.InDelta(t, 3.0, got.MeanQuantity, 0.0001)
	assert.InDelta(t, 4.0, got.MaxQuantity, 0.0001)
}
