package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmanet/asisbot/internal/domain"
)

func newSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func TestSettingsSaveAndGet(t *testing.T) {
	manager := NewSettingsManager(newSettingsTestDB(t))

	err := manager.Save(map[string]interface{}{
		"chat/ConversationHistoryDays": 30,
		"chat/SystemMonitorEnabled":    true,
		"chat/Greeting":                "hola",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 30, manager.GetInt64("chat", "ConversationHistoryDays"))
	assert.True(t, manager.GetBool("chat", "SystemMonitorEnabled"))
	assert.Equal(t, "hola", manager.GetString("chat", "Greeting"))
}

func TestSettingsSaveInvalidatesCache(t *testing.T) {
	manager := NewSettingsManager(newSettingsTestDB(t))

	require.NoError(t, manager.Save(map[string]interface{}{"chat/ConversationHistoryDays": 30}))
	require.EqualValues(t, 30, manager.GetInt64("chat", "ConversationHistoryDays"))

	// An update within the cache TTL is still visible afterwards
	require.NoError(t, manager.Save(map[string]interface{}{"chat/ConversationHistoryDays": 7}))
	assert.EqualValues(t, 7, manager.GetInt64("chat", "ConversationHistoryDays"))
}

func TestSettingsUnknownKeyIsZero(t *testing.T) {
	manager := NewSettingsManager(newSettingsTestDB(t))

	assert.Equal(t, "", manager.GetString("chat", "Missing"))
	assert.EqualValues(t, 0, manager.GetInt64("chat", "Missing"))
	assert.False(t, manager.GetBool("chat", "Missing"))
}

func TestSettingsMalformedKeyIgnored(t *testing.T) {
	db := newSettingsTestDB(t)
	manager := NewSettingsManager(db)

	require.NoError(t, manager.Save(map[string]interface{}{"no-separator": "x"}))

	var count int64
	db.Model(&domain.SysConfig{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
