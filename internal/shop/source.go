package shop

import (
	_ "embed"

	jsoniter "github.com/json-iterator/go"

	"github.com/lledoind/aerotools/internal/domain"
)

//go:embed data/products.json
var sourceProductsData []byte

//go:embed data/categories.json
var categoriesData []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SourceProducts returns a fresh copy of the shipped source catalog. The
// source is redeployed with the application and is never mutated; callers
// get their own slice.
func SourceProducts() []domain.ShopProduct {
	var products []domain.ShopProduct
	if err := json.Unmarshal(sourceProductsData, &products); err != nil {
		// The embedded catalog is validated at build time; a parse
		// failure here means a broken release artifact.
		panic(err)
	}
	return products
}

// Categories returns the known shop categories in display order.
func Categories() []domain.ShopCategory {
	var categories []domain.ShopCategory
	if err := json.Unmarshal(categoriesData, &categories); err != nil {
		panic(err)
	}
	return categories
}
