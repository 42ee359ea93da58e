package shop

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lledoind/aerotools/internal/domain"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Barre de remorquage", "barre-de-remorquage"},
		{"diacritics stripped", "Vérin hydraulique étanche", "verin-hydraulique-etanche"},
		{"punctuation collapsed", "Chariot (v2) -- spécial!", "chariot-v2-special"},
		{"no edge hyphens", "  Plateau  ", "plateau"},
		{"digits kept", "Kit H125 2024", "kit-h125-2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.in))
		})
	}
}

func TestGenerateID(t *testing.T) {
	idRe := regexp.MustCompile(`^[A-Z]+-[A-Z0-9]{4}$`)

	tests := []struct {
		category string
		prefix   string
	}{
		{"towing", "BR-"},
		{"handling", "RL-"},
		{"maintenance", "MT-"},
		{"gse", "GSE-"},
		{"unknown-category", "PRD-"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			id := GenerateID(tt.category)
			assert.True(t, strings.HasPrefix(id, tt.prefix), "id %q should start with %q", id, tt.prefix)
			assert.Regexp(t, idRe, id)
		})
	}
}

func TestValidateProduct(t *testing.T) {
	valid := domain.ShopProduct{
		Name:        "Barre de remorquage",
		Slug:        "barre-de-remorquage",
		Category:    "towing",
		Description: "Une barre",
	}
	assert.Empty(t, ValidateProduct(valid))

	t.Run("missing required fields", func(t *testing.T) {
		errs := ValidateProduct(domain.ShopProduct{})
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "slug")
		assert.Contains(t, errs, "category")
		assert.Contains(t, errs, "description")
	})

	t.Run("slug charset", func(t *testing.T) {
		p := valid
		p.Slug = "Barre_De_Remorquage"
		errs := ValidateProduct(p)
		assert.Contains(t, errs, "slug")
	})

	t.Run("name too long", func(t *testing.T) {
		p := valid
		p.Name = strings.Repeat("x", 121)
		errs := ValidateProduct(p)
		assert.Contains(t, errs, "name")
	})
}
