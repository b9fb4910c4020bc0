package assistant

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/pkg/common"
)

// ConversationRepository persists the chat audit trail. Rows are
// append only; the pipeline never updates or deletes them.
type ConversationRepository interface {
	// Create inserts one audit row
	Create(ctx context.Context, userMessage, botResponse string) error

	// List retrieves rows newest first with optional time bounds
	List(ctx context.Context, start, end time.Time, page, pageSize int) ([]domain.Conversation, int64, error)

	// DeleteOlderThan prunes rows created before the cutoff and
	// reports how many were removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GormConversationRepository is the GORM implementation of
// ConversationRepository.
type GormConversationRepository struct {
	db *gorm.DB
}

var _ ConversationRepository = (*GormConversationRepository)(nil)

func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) Create(ctx context.Context, userMessage, botResponse string) error {
	return r.db.WithContext(ctx).Create(&domain.Conversation{
		ID:          common.UUIDint64(),
		UserMessage: userMessage,
		BotResponse: botResponse,
		CreatedAt:   time.Now(),
	}).Error
}

func (r *GormConversationRepository) List(ctx context.Context, start, end time.Time, page, pageSize int) ([]domain.Conversation, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Conversation{})
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where("created_at <= ?", end)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var rows []domain.Conversation
	err := db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *GormConversationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Conversation{})
	return result.RowsAffected, result.Error
}
