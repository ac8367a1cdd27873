package contract

import (
	"context"

	"ai-therapist-be/internal/entity"
	"ai-therapist-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository is append-only: rows are never updated, and the only
// deletion is the bulk purge by session id.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
