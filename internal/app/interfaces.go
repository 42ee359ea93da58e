package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/lledoind/aerotools/config"
	"github.com/lledoind/aerotools/internal/catalog"
	"github.com/lledoind/aerotools/internal/mailer"
	"github.com/lledoind/aerotools/internal/quote"
	"github.com/lledoind/aerotools/internal/shop"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	GetSettingsStringValue(category, key string) string
	GetSettingsInt64Value(category, key string) int64
	GetSettingsBoolValue(category, key string) bool
	SaveSettings(settings map[string]interface{}) error
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// ConfigManagerProvider provides configuration manager access
type ConfigManagerProvider interface {
	ConfigMgr() *ConfigManager
}

// CatalogProvider provides the compatibility catalog and the shop stores
type CatalogProvider interface {
	Catalog() *catalog.Catalog
	ShopStore() *shop.CatalogStore
	QuoteStore() *quote.Store
	Mailer() *mailer.Sender
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	ConfigManagerProvider
	CatalogProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
