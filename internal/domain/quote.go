package domain

// PartSnapshot is the denormalized copy of a part captured when a quote
// line is created, so later catalog edits never retroactively change an
// open quote.
type PartSnapshot struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Ref          string `json:"ref"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Availability string `json:"availability"`
	PriceDisplay string `json:"priceDisplay"`
}

// QuoteLine is one accumulated selection in the in-progress quote. Identity
// is the (Part.ID, ZoneID) pair; at most one line exists per pair.
type QuoteLine struct {
	Part           PartSnapshot `json:"part"`
	HelicopterID   string       `json:"helicopterId"`
	HelicopterName string       `json:"helicopterName"`
	ZoneID         string       `json:"zoneId"`
	ZoneName       string       `json:"zoneName"`
	Quantity       int          `json:"quantity"`
}

// Configuration is the active helicopter context shown in the configurator
// UI. It carries no identity semantics for quote lines.
type Configuration struct {
	HelicopterID   string `json:"helicopterId"`
	HelicopterName string `json:"helicopterName"`
}
