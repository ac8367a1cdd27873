package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

type ChatMessage struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	ChatSessionId *uuid.UUID
	Sender        string
	Message       string
	CreatedAt     time.Time
}
