package shop

import (
	"strings"

	"github.com/lledoind/aerotools/internal/domain"
)

// ActiveFilters is pure view state driving the multi-facet filter engine.
// Multi-select facets widen results within the facet (OR) and narrow across
// facets (AND).
type ActiveFilters struct {
	Category      string   `json:"category" query:"category"`
	Search        string   `json:"search" query:"search"`
	Usage         []string `json:"usage" query:"usage"`
	Material      []string `json:"material" query:"material"`
	PriceRange    []string `json:"priceRange" query:"price_range"`
	Compatibility string   `json:"compatibility" query:"compatibility"`
	InStockOnly   bool     `json:"inStockOnly" query:"in_stock_only"`
}

// DefaultFilters returns the neutral filter state: every predicate
// vacuously true.
func DefaultFilters() ActiveFilters {
	return ActiveFilters{Category: "all"}
}

func containsAny(haystack, selected []string) bool {
	for _, s := range selected {
		for _, h := range haystack {
			if h == s {
				return true
			}
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// searchable concatenates the text facets a free-text query matches against.
// Matching is byte-wise case-insensitive; accents are significant, which is
// consistent with how CategoryCounts buckets products.
func searchable(p *domain.ShopProduct) string {
	fields := make([]string, 0, 6+len(p.Compatibility)+len(p.Specs))
	fields = append(fields, p.Name, p.Description, p.ShortDescription)
	fields = append(fields, p.Compatibility...)
	fields = append(fields, p.Category, p.Material)
	for _, v := range p.Specs {
		fields = append(fields, v)
	}
	return strings.ToLower(strings.Join(fields, " "))
}

func matches(p *domain.ShopProduct, f *ActiveFilters) bool {
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}

	if f.Search != "" {
		if !strings.Contains(searchable(p), strings.ToLower(f.Search)) {
			return false
		}
	}

	if len(f.Usage) > 0 && !containsAny(p.Usage, f.Usage) {
		return false
	}
	if len(f.Material) > 0 && !containsString(f.Material, p.Material) {
		return false
	}
	if len(f.PriceRange) > 0 && !containsString(f.PriceRange, p.PriceRange) {
		return false
	}

	if f.Compatibility != "" {
		q := strings.ToLower(f.Compatibility)
		found := false
		for _, c := range p.Compatibility {
			if strings.Contains(strings.ToLower(c), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.InStockOnly && !p.InStock {
		return false
	}

	return true
}

// FilterProducts narrows the product list by the conjunction of all active
// filter predicates. Pure and deterministic; input order is preserved and
// the input slice is never mutated.
func FilterProducts(products []domain.ShopProduct, filters ActiveFilters) []domain.ShopProduct {
	result := make([]domain.ShopProduct, 0, len(products))
	for i := range products {
		if matches(&products[i], &filters) {
			result = append(result, products[i])
		}
	}
	return result
}

// CategoryCounts returns, for every known category, the product count over
// the unfiltered universe. Deliberately independent of any active filters so
// the browsing UI can show how a category switch would change result size.
func CategoryCounts(products []domain.ShopProduct) map[string]int {
	counts := make(map[string]int)
	for _, cat := range Categories() {
		counts[cat.ID] = 0
	}
	for i := range products {
		if _, ok := counts[products[i].Category]; ok {
			counts[products[i].Category]++
		}
	}
	return counts
}

// RelatedProducts returns up to limit products sharing a category or a
// compatibility entry with the given product.
func RelatedProducts(products []domain.ShopProduct, product domain.ShopProduct, limit int) []domain.ShopProduct {
	var result []domain.ShopProduct
	for _, p := range products {
		if p.ID == product.ID {
			continue
		}
		if p.Category == product.Category || containsAny(p.Compatibility, product.Compatibility) {
			result = append(result, p)
			if len(result) >= limit {
				break
			}
		}
	}
	return result
}

// BoughtTogether resolves the product's boughtTogether id list against the
// catalog, skipping unknown ids.
func BoughtTogether(products []domain.ShopProduct, product domain.ShopProduct) []domain.ShopProduct {
	var result []domain.ShopProduct
	for _, id := range product.BoughtTogether {
		for i := range products {
			if products[i].ID == id {
				result = append(result, products[i])
				break
			}
		}
	}
	return result
}
