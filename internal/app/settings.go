package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/internal/domain"
)

const settingsCacheTTL = 30 * time.Second

// ConfigManager reads system settings from the sys_config table with a
// short-lived cache. Settings are operator-tunable values that do not
// warrant a restart, unlike the YAML bootstrap config.
type ConfigManager struct {
	app *Application

	mu       sync.RWMutex
	cache    map[string]string
	cachedAt time.Time
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app}
}

func (m *ConfigManager) loadAll() map[string]string {
	m.mu.RLock()
	if m.cache != nil && time.Since(m.cachedAt) < settingsCacheTTL {
		defer m.mu.RUnlock()
		return m.cache
	}
	m.mu.RUnlock()

	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Warn("failed to load settings", zap.Error(err))
		return m.cache
	}

	cache := make(map[string]string, len(rows))
	for _, row := range rows {
		cache[row.Type+"."+row.Name] = row.Value
	}

	m.mu.Lock()
	m.cache = cache
	m.cachedAt = time.Now()
	m.mu.Unlock()
	return cache
}

func (m *ConfigManager) GetString(category, key string) string {
	return m.loadAll()[category+"."+key]
}

func (m *ConfigManager) GetInt(category, key string) int {
	return cast.ToInt(m.GetString(category, key))
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.GetString(category, key))
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.GetString(category, key))
}

// SetValue writes a setting and invalidates the cache.
func (m *ConfigManager) SetValue(category, key, value string) error {
	var row domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, key).First(&row).Error
	if err != nil {
		row = domain.SysConfig{Type: category, Name: key, Value: value}
		err = m.app.DB().Create(&row).Error
	} else {
		err = m.app.DB().Model(&domain.SysConfig{}).
			Where("id = ?", row.ID).Update("value", value).Error
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.cache = nil
	m.mu.Unlock()
	return nil
}

// SaveSettings saves a settings map keyed by "category.name".
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	for key, value := range settings {
		category, name, ok := splitSettingKey(key)
		if !ok {
			continue
		}
		if err := a.configManager.SetValue(category, name, cast.ToString(value)); err != nil {
			return err
		}
	}
	return nil
}

func splitSettingKey(key string) (category, name string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
