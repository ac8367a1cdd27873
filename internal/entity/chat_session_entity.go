package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is the sentinel title assigned at creation. The first
// message that arrives while the title still equals this value rewrites it.
const DefaultSessionTitle = "New Session"

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
