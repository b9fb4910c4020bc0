package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmanet/asisbot/internal/domain"
)

const settingsCacheTTL = 30 * time.Second

// SettingsManager reads sys_config rows with a short lived cache so
// hot paths don't hit the database on every request.
type SettingsManager struct {
	db       *gorm.DB
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{db: db, cache: make(map[string]string)}
}

func (m *SettingsManager) reloadIfStale() {
	m.mu.RLock()
	fresh := time.Since(m.loadedAt) < settingsCacheTTL
	m.mu.RUnlock()
	if fresh {
		return
	}

	var rows []domain.SysConfig
	if err := m.db.Find(&rows).Error; err != nil {
		zap.S().Errorf("settings reload failed: %s", err.Error())
		return
	}

	next := make(map[string]string, len(rows))
	for _, row := range rows {
		next[row.Type+"/"+row.Name] = row.Value
	}

	m.mu.Lock()
	m.cache = next
	m.loadedAt = time.Now()
	m.mu.Unlock()
}

func (m *SettingsManager) get(category, key string) string {
	m.reloadIfStale()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache[category+"/"+key]
}

func (m *SettingsManager) GetString(category, key string) string {
	return m.get(category, key)
}

func (m *SettingsManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.get(category, key))
}

func (m *SettingsManager) GetBool(category, key string) bool {
	return cast.ToBool(m.get(category, key))
}

// Save upserts settings values keyed as "category/name"
func (m *SettingsManager) Save(settings map[string]interface{}) error {
	for ckey, value := range settings {
		category, name := splitSettingsKey(ckey)
		if category == "" || name == "" {
			continue
		}
		strval := cast.ToString(value)
		result := m.db.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Update("value", strval)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := m.db.Create(&domain.SysConfig{
				Type:  category,
				Name:  name,
				Value: strval,
			}).Error; err != nil {
				return err
			}
		}
	}

	m.mu.Lock()
	m.loadedAt = time.Time{}
	m.mu.Unlock()
	return nil
}

func splitSettingsKey(ckey string) (category, name string) {
	for i := 0; i < len(ckey); i++ {
		if ckey[i] == '/' {
			return ckey[:i], ckey[i+1:]
		}
	}
	return "", ""
}
