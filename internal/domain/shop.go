package domain

// FAQItem is a question/answer pair attached to a shop product.
type FAQItem struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// ShopProduct is an operator-editable catalog record. It is persisted to the
// local state store and mirrored to the remote catalog endpoint; the JSON
// field names are the mirror wire format. PriceDisplay is always a display
// string, never a computed number.
type ShopProduct struct {
	ID               string            `json:"id"`
	Slug             string            `json:"slug"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"shortDescription"`
	Features         []string          `json:"features"`
	Specs            map[string]string `json:"specs"`
	Image            string            `json:"image"`
	Gallery          []string          `json:"gallery"`
	PriceDisplay     string            `json:"priceDisplay"`
	PriceRange       string            `json:"priceRange"`
	Compatibility    []string          `json:"compatibility"`
	Usage            []string          `json:"usage"`
	Material         string            `json:"material"`
	InStock          bool              `json:"inStock"`
	IsNew            bool              `json:"isNew"`
	IsFeatured       bool              `json:"isFeatured"`
	DatasheetURL     string            `json:"datasheetUrl,omitempty"`

	// Extended B2B fields, optional for backward compatibility with
	// older mirror payloads.
	Certifications []string          `json:"certifications,omitempty"`
	Standards      []string          `json:"standards,omitempty"`
	Applications   []string          `json:"applications,omitempty"`
	Tolerances     map[string]string `json:"tolerances,omitempty"`
	LeadTime       string            `json:"leadTime,omitempty"`
	MinOrder       int               `json:"minOrder,omitempty"`
	Warranty       string            `json:"warranty,omitempty"`
	FAQ            []FAQItem         `json:"faq,omitempty"`
	BoughtTogether []string          `json:"boughtTogether,omitempty"`
}

// ShopCategory describes one known product category of the shop.
type ShopCategory struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// EmptyShopProduct returns the template used when an operator creates a
// new product from scratch.
func EmptyShopProduct() ShopProduct {
	return ShopProduct{
		Category:      "towing",
		Features:      []string{},
		Specs:         map[string]string{},
		Gallery:       []string{},
		PriceDisplay:  "SUR DEVIS",
		PriceRange:    "medium",
		Compatibility: []string{},
		Usage:         []string{},
		Material:      "steel",
		InStock:       true,
		LeadTime:      "4 à 8 semaines",
		MinOrder:      1,
		Warranty:      "24 mois",
	}
}
