package domain

// Static reference data for the equipment configurator. Loaded from the
// embedded catalog JSON at startup and never mutated afterwards.

type Manufacturer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Zone is a named equipment-mounting location on a helicopter model.
type Zone struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Helicopter struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Manufacturer string   `json:"manufacturer"`
	Name         string   `json:"name"`
	Designations []string `json:"designations"`
	Category     string   `json:"category"`
	Zones        []Zone   `json:"zones"`
	Description  string   `json:"description"`
	InService    bool     `json:"inService"`
}

// SpecEntry keeps part specifications in catalog order.
type SpecEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const (
	AvailabilityInStock      = "in-stock"
	AvailabilityMadeToOrder  = "made-to-order"
	AvailabilityDiscontinued = "discontinued"
)

// Part is a GSE catalog item. Compatibility with (helicopter, zone) pairs
// is declared by the compatibility relation, never inferred from naming.
type Part struct {
	ID             string      `json:"id"`
	Slug           string      `json:"slug"`
	Ref            string      `json:"ref"`
	Name           string      `json:"name"`
	Category       string      `json:"category"`
	Description    string      `json:"description"`
	Specs          []SpecEntry `json:"specs"`
	Certifications []string    `json:"certifications"`
	Availability   string      `json:"availability"`
	LeadTime       int         `json:"leadTime,omitempty"`
}

type CompatibilityEntry struct {
	HelicopterID string   `json:"helicopterId"`
	ZoneID       string   `json:"zoneId"`
	PartIDs      []string `json:"partIds"`
}
