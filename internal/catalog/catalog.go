package catalog

import (
	_ "embed"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/lledoind/aerotools/internal/domain"
)

//go:embed data/helicopters.json
var helicoptersData []byte

//go:embed data/parts.json
var partsData []byte

//go:embed data/compatibility.json
var compatibilityData []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ZoneParts pairs a zone with the parts compatible with it.
type ZoneParts struct {
	Zone  domain.Zone   `json:"zone"`
	Parts []domain.Part `json:"parts"`
}

// CategoryCount is the number of catalog entries in one category.
type CategoryCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Catalog holds the static reference data: helicopters, zones, parts and the
// explicit (helicopter, zone) -> parts compatibility relation. Read-only at
// runtime; lookups are served from indexes built once at load.
type Catalog struct {
	manufacturers []domain.Manufacturer
	helicopters   []domain.Helicopter
	parts         []domain.Part
	compatibility []domain.CompatibilityEntry

	heliByID     map[string]*domain.Helicopter
	heliBySlug   map[string]*domain.Helicopter
	partByID     map[string]*domain.Part
	partBySlug   map[string]*domain.Part
	manufByID    map[string]*domain.Manufacturer
	partsByPair  map[string][]domain.Part
}

func pairKey(helicopterID, zoneID string) string {
	return helicopterID + "|" + zoneID
}

// Load parses the embedded reference data and builds lookup indexes.
func Load() (*Catalog, error) {
	var hd struct {
		Manufacturers []domain.Manufacturer `json:"manufacturers"`
		Helicopters   []domain.Helicopter   `json:"helicopters"`
	}
	if err := json.Unmarshal(helicoptersData, &hd); err != nil {
		return nil, errors.Wrap(err, "parse helicopters data")
	}

	var pd struct {
		Parts []domain.Part `json:"parts"`
	}
	if err := json.Unmarshal(partsData, &pd); err != nil {
		return nil, errors.Wrap(err, "parse parts data")
	}

	var cd struct {
		Compatibility []domain.CompatibilityEntry `json:"compatibility"`
	}
	if err := json.Unmarshal(compatibilityData, &cd); err != nil {
		return nil, errors.Wrap(err, "parse compatibility data")
	}

	c := &Catalog{
		manufacturers: hd.Manufacturers,
		helicopters:   hd.Helicopters,
		parts:         pd.Parts,
		compatibility: cd.Compatibility,
		heliByID:      make(map[string]*domain.Helicopter),
		heliBySlug:    make(map[string]*domain.Helicopter),
		partByID:      make(map[string]*domain.Part),
		partBySlug:    make(map[string]*domain.Part),
		manufByID:     make(map[string]*domain.Manufacturer),
		partsByPair:   make(map[string][]domain.Part),
	}

	for i := range c.manufacturers {
		c.manufByID[c.manufacturers[i].ID] = &c.manufacturers[i]
	}
	for i := range c.helicopters {
		c.heliByID[c.helicopters[i].ID] = &c.helicopters[i]
		c.heliBySlug[c.helicopters[i].Slug] = &c.helicopters[i]
	}
	for i := range c.parts {
		c.partByID[c.parts[i].ID] = &c.parts[i]
		c.partBySlug[c.parts[i].Slug] = &c.parts[i]
	}

	// Index the compatibility relation; part order follows catalog order
	// within each entry, unknown part ids are skipped.
	for _, entry := range c.compatibility {
		key := pairKey(entry.HelicopterID, entry.ZoneID)
		for _, pid := range entry.PartIDs {
			if p, ok := c.partByID[pid]; ok {
				c.partsByPair[key] = append(c.partsByPair[key], *p)
			}
		}
	}

	return c, nil
}

func (c *Catalog) Manufacturers() []domain.Manufacturer {
	return c.manufacturers
}

func (c *Catalog) Manufacturer(id string) (domain.Manufacturer, bool) {
	m, ok := c.manufByID[id]
	if !ok {
		return domain.Manufacturer{}, false
	}
	return *m, true
}

func (c *Catalog) Helicopters() []domain.Helicopter {
	return c.helicopters
}

func (c *Catalog) Helicopter(id string) (domain.Helicopter, bool) {
	h, ok := c.heliByID[id]
	if !ok {
		return domain.Helicopter{}, false
	}
	return *h, true
}

func (c *Catalog) HelicopterBySlug(slug string) (domain.Helicopter, bool) {
	h, ok := c.heliBySlug[slug]
	if !ok {
		return domain.Helicopter{}, false
	}
	return *h, true
}

func (c *Catalog) Parts() []domain.Part {
	return c.parts
}

func (c *Catalog) Part(id string) (domain.Part, bool) {
	p, ok := c.partByID[id]
	if !ok {
		return domain.Part{}, false
	}
	return *p, true
}

func (c *Catalog) PartBySlug(slug string) (domain.Part, bool) {
	p, ok := c.partBySlug[slug]
	if !ok {
		return domain.Part{}, false
	}
	return *p, true
}

// CompatibleParts returns the parts compatible with the given (helicopter,
// zone) pair in catalog order. Unknown pairs yield an empty list.
func (c *Catalog) CompatibleParts(helicopterID, zoneID string) []domain.Part {
	return c.partsByPair[pairKey(helicopterID, zoneID)]
}

// ZonesWithParts returns every zone of the helicopter together with its
// compatible parts. Zones without parts carry an empty list.
func (c *Catalog) ZonesWithParts(helicopterID string) []ZoneParts {
	h, ok := c.heliByID[helicopterID]
	if !ok {
		return nil
	}
	result := make([]ZoneParts, 0, len(h.Zones))
	for _, zone := range h.Zones {
		parts := c.CompatibleParts(helicopterID, zone.ID)
		if parts == nil {
			parts = []domain.Part{}
		}
		result = append(result, ZoneParts{Zone: zone, Parts: parts})
	}
	return result
}

// CompatibleHelicopters returns the helicopters that have at least one zone
// compatible with the given part.
func (c *Catalog) CompatibleHelicopters(partID string) []domain.Helicopter {
	seen := make(map[string]bool)
	var result []domain.Helicopter
	for _, entry := range c.compatibility {
		if seen[entry.HelicopterID] {
			continue
		}
		for _, pid := range entry.PartIDs {
			if pid == partID {
				if h, ok := c.heliByID[entry.HelicopterID]; ok {
					seen[entry.HelicopterID] = true
					result = append(result, *h)
				}
				break
			}
		}
	}
	return result
}

// CountCompatibleParts returns the number of distinct parts compatible with
// any zone of the helicopter.
func (c *Catalog) CountCompatibleParts(helicopterID string) int {
	seen := make(map[string]bool)
	for _, entry := range c.compatibility {
		if entry.HelicopterID != helicopterID {
			continue
		}
		for _, pid := range entry.PartIDs {
			seen[pid] = true
		}
	}
	return len(seen)
}

// SearchHelicopters matches the query against name, slug, designations and
// manufacturer id. An empty query returns no results.
func (c *Catalog) SearchHelicopters(query string) []domain.Helicopter {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var result []domain.Helicopter
	for _, h := range c.helicopters {
		searchable := strings.ToLower(strings.Join(append([]string{h.Name, h.Slug, h.Manufacturer}, h.Designations...), " "))
		if strings.Contains(searchable, q) {
			result = append(result, h)
		}
	}
	return result
}

// SearchParts matches the query against name, ref, slug and category.
func (c *Catalog) SearchParts(query string) []domain.Part {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var result []domain.Part
	for _, p := range c.parts {
		searchable := strings.ToLower(strings.Join([]string{p.Name, p.Ref, p.Slug, p.Category}, " "))
		if strings.Contains(searchable, q) {
			result = append(result, p)
		}
	}
	return result
}

// HelicopterCategories returns per-category helicopter counts in first-seen
// order.
func (c *Catalog) HelicopterCategories() []CategoryCount {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, h := range c.helicopters {
		if _, ok := counts[h.Category]; !ok {
			order = append(order, h.Category)
		}
		counts[h.Category]++
	}
	result := make([]CategoryCount, 0, len(order))
	for _, id := range order {
		result = append(result, CategoryCount{ID: id, Count: counts[id]})
	}
	return result
}

// PartCategories returns per-category part counts in first-seen order.
func (c *Catalog) PartCategories() []CategoryCount {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, p := range c.parts {
		if _, ok := counts[p.Category]; !ok {
			order = append(order, p.Category)
		}
		counts[p.Category]++
	}
	result := make([]CategoryCount, 0, len(order))
	for _, id := range order {
		result = append(result, CategoryCount{ID: id, Count: counts[id]})
	}
	return result
}
