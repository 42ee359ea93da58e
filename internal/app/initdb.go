package app

import (
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/internal/domain"
)

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

// defaultSettings are seeded on first boot; existing values are never
// overwritten.
var defaultSettings = []settingSchema{
	{"quote.SubmissionRetentionDays", "365", "Days to keep submitted quote requests"},
	{"quote.MaxLineQuantity", "99", "Maximum quantity accepted per quote line"},
	{"shop.RelatedProductsLimit", "4", "Number of related products shown on a product page"},
	{"mirror.RefreshEnabled", "true", "Enable periodic catalog refresh from the mirror"},
}

func (a *Application) checkSettings() {
	for sortid, schema := range defaultSettings {
		category, name, ok := splitSettingKey(schema.Key)
		if !ok {
			zap.L().Warn("invalid setting key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     0,
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized setting",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}
