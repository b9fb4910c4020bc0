package domain

import "time"

// Conversation is one audited chat exchange. Rows are append only:
// the pipeline writes exactly one per request and never updates it.
type Conversation struct {
	ID          int64     `gorm:"primaryKey" json:"id,string"`
	UserMessage string    `gorm:"size:4000" json:"user_message"`
	BotResponse string    `gorm:"size:8000" json:"bot_response"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
