package shop

import (
	"github.com/pkg/errors"

	"github.com/lledoind/aerotools/internal/domain"
)

// CurrentSchemaVersion is the schema version of the locally persisted
// catalog payload. Bump it together with a new migration step whenever the
// product shape changes incompatibly.
const CurrentSchemaVersion = 2

var errInvalidSnapshot = errors.New("catalog snapshot must be a JSON list of products")

type migrationStep struct {
	from  int
	to    int
	apply func([]domain.ShopProduct) []domain.ShopProduct
}

// migrations is the ordered chain of forward schema migrations. A stored
// payload is walked step by step from its version to the current one; a
// version with no entry point into the chain is discarded instead.
var migrations = []migrationStep{
	{from: 1, to: 2, apply: migrateEnsureGalleryFields},
}

func migrate(products []domain.ShopProduct, fromVersion int) ([]domain.ShopProduct, bool) {
	version := fromVersion
	for _, step := range migrations {
		if step.from != version {
			continue
		}
		products = step.apply(products)
		version = step.to
	}
	return products, version == CurrentSchemaVersion
}

// migrateEnsureGalleryFields backfills the slice fields introduced after the
// first persisted schema, so merged records always expose them.
func migrateEnsureGalleryFields(products []domain.ShopProduct) []domain.ShopProduct {
	for i := range products {
		if products[i].Gallery == nil {
			products[i].Gallery = []string{}
		}
		if products[i].Features == nil {
			products[i].Features = []string{}
		}
		if products[i].Specs == nil {
			products[i].Specs = map[string]string{}
		}
	}
	return products
}
