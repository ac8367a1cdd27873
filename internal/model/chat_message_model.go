package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage rows are append-only; there is no per-message update or delete,
// only bulk deletion by session id. No soft-delete column for that reason.
type ChatMessage struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChatSessionId *uuid.UUID `gorm:"type:uuid;index"` // Messages may exist outside any session
	Sender        string     `gorm:"type:varchar(50);not null"`
	Message       string     `gorm:"type:text;not null"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
