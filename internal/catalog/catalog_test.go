package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lledoind/aerotools/internal/domain"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	require.NoError(t, err)
	return c
}

func TestLoadBuildsIndexes(t *testing.T) {
	c := loadCatalog(t)

	assert.NotEmpty(t, c.Manufacturers())
	assert.NotEmpty(t, c.Helicopters())
	assert.NotEmpty(t, c.Parts())

	h, found := c.Helicopter("h125")
	require.True(t, found)
	assert.Equal(t, "airbus", h.Manufacturer)

	bySlug, found := c.HelicopterBySlug(h.Slug)
	require.True(t, found)
	assert.Equal(t, h.ID, bySlug.ID)

	_, found = c.Helicopter("does-not-exist")
	assert.False(t, found)
}

func TestCompatiblePartsCatalogOrder(t *testing.T) {
	c := loadCatalog(t)

	parts := c.CompatibleParts("h125", "skid-front")
	require.NotEmpty(t, parts)

	// every listed part is declared for the pair, in catalog entry order
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "br-h125")

	// unknown pair yields nothing
	assert.Empty(t, c.CompatibleParts("h125", "no-such-zone"))
	assert.Empty(t, c.CompatibleParts("no-such-heli", "skid-front"))
}

func TestZonesWithPartsCoversEveryZone(t *testing.T) {
	c := loadCatalog(t)

	h, found := c.Helicopter("h125")
	require.True(t, found)

	zones := c.ZonesWithParts("h125")
	require.Len(t, zones, len(h.Zones))
	for _, zp := range zones {
		assert.NotNil(t, zp.Parts, "zones without parts still carry an empty list")
	}

	assert.Nil(t, c.ZonesWithParts("does-not-exist"))
}

func TestCompatibleHelicopters(t *testing.T) {
	c := loadCatalog(t)

	helis := c.CompatibleHelicopters("rl-skid")
	require.NotEmpty(t, helis)
	seen := make(map[string]bool)
	for _, h := range helis {
		assert.False(t, seen[h.ID], "each helicopter appears once")
		seen[h.ID] = true
	}
}

func TestCountCompatiblePartsIsDistinct(t *testing.T) {
	c := loadCatalog(t)

	// A part compatible with several zones of the same helicopter is
	// counted once.
	count := c.CountCompatibleParts("h125")
	distinct := make(map[string]bool)
	for _, entry := range c.compatibility {
		if entry.HelicopterID != "h125" {
			continue
		}
		for _, pid := range entry.PartIDs {
			distinct[pid] = true
		}
	}
	assert.Equal(t, len(distinct), count)
}

func TestSearchHelicopters(t *testing.T) {
	c := loadCatalog(t)

	assert.Empty(t, c.SearchHelicopters(""))
	assert.Empty(t, c.SearchHelicopters("   "))

	got := c.SearchHelicopters("h125")
	require.Len(t, got, 1)
	assert.Equal(t, "h125", got[0].ID)

	// matches designations too
	byDesignation := c.SearchHelicopters("écureuil")
	if len(byDesignation) > 0 {
		assert.Equal(t, "h125", byDesignation[0].ID)
	}
}

func TestSearchParts(t *testing.T) {
	c := loadCatalog(t)

	got := c.SearchParts("towbar")
	require.NotEmpty(t, got)
	for _, p := range got {
		assert.Equal(t, "towbar", p.Category)
	}

	assert.Empty(t, c.SearchParts(""))
}

func TestPartCategoriesFirstSeenOrder(t *testing.T) {
	c := loadCatalog(t)

	cats := c.PartCategories()
	require.NotEmpty(t, cats)

	total := 0
	seen := make(map[string]bool)
	for _, cc := range cats {
		assert.False(t, seen[cc.ID])
		seen[cc.ID] = true
		total += cc.Count
	}
	assert.Equal(t, len(c.Parts()), total)
}

func TestHelicopterCategories(t *testing.T) {
	c := loadCatalog(t)

	total := 0
	for _, cc := range c.HelicopterCategories() {
		total += cc.Count
	}
	assert.Equal(t, len(c.Helicopters()), total)
}

func TestAvailabilityValues(t *testing.T) {
	c := loadCatalog(t)

	valid := map[string]bool{
		domain.AvailabilityInStock:      true,
		domain.AvailabilityMadeToOrder:  true,
		domain.AvailabilityDiscontinued: true,
	}
	for _, p := range c.Parts() {
		assert.True(t, valid[p.Availability], "part %s has unknown availability %q", p.ID, p.Availability)
	}
}
