package assistant

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/pkg/common"
)

// stubModel is a canned ModelClient for pipeline tests.
type stubModel struct {
	jsonReply string
	jsonErr   error
	textReply string
	textErr   error

	lastJSONUser   string
	lastTextSystem string
}

func (s *stubModel) CompleteJSON(_ context.Context, _, user string) (string, error) {
	s.lastJSONUser = user
	if s.jsonErr != nil {
		return "", s.jsonErr
	}
	return s.jsonReply, nil
}

func (s *stubModel) Complete(_ context.Context, system string) (string, error) {
	s.lastTextSystem = system
	if s.textErr != nil {
		return "", s.textErr
	}
	return s.textReply, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) int64 {
	t.Helper()
	category := domain.Category{ID: common.UUIDint64(), Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category.ID
}

func seedProduct(t *testing.T, db *gorm.DB, name, description string, categoryID int64, stock int, price float64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Product{
		ID:          common.UUIDint64(),
		Name:        name,
		Description: description,
		CategoryID:  categoryID,
		Stock:       stock,
		Price:       price,
	}).Error)
}

func conversationRows(t *testing.T, db *gorm.DB) []domain.Conversation {
	t.Helper()
	var rows []domain.Conversation
	require.NoError(t, db.Find(&rows).Error)
	return rows
}
