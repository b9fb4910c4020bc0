package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/pkg/common"
)

func TestConversationListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormConversationRepository(db)

	require.NoError(t, db.Create(&domain.Conversation{
		ID: common.UUIDint64(), UserMessage: "primera", BotResponse: "r1",
		CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, repo.Create(context.Background(), "segunda", "r2"))

	rows, total, err := repo.List(context.Background(), time.Time{}, time.Time{}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "segunda", rows[0].UserMessage)
}

func TestConversationDeleteOlderThan(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormConversationRepository(db)

	require.NoError(t, db.Create(&domain.Conversation{
		ID: common.UUIDint64(), UserMessage: "vieja", BotResponse: "r1",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}).Error)
	require.NoError(t, repo.Create(context.Background(), "nueva", "r2"))

	removed, err := repo.DeleteOlderThan(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	rows := conversationRows(t, db)
	require.Len(t, rows, 1)
	assert.Equal(t, "nueva", rows[0].UserMessage)
}
