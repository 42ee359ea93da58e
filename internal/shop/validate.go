package shop

import (
	"regexp"
	"strings"

	"github.com/lledoind/aerotools/internal/domain"
)

const maxNameLength = 120

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidationErrors maps field names to human-readable messages.
type ValidationErrors map[string]string

// ValidateProduct checks operator input and returns a field -> message map.
// Validation never blocks a mutation; the form layer is responsible for
// surfacing the result.
func ValidateProduct(p domain.ShopProduct) ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "name is required"
	}
	if strings.TrimSpace(p.Slug) == "" {
		errs["slug"] = "slug is required"
	}
	if p.Category == "" {
		errs["category"] = "category is required"
	}
	if strings.TrimSpace(p.Description) == "" {
		errs["description"] = "description is required"
	}
	if len(p.Name) > maxNameLength {
		errs["name"] = "name too long (max 120 chars)"
	}
	if p.Slug != "" && !slugRe.MatchString(p.Slug) {
		errs["slug"] = "slug may only contain a-z, 0-9 and hyphens"
	}
	return errs
}
