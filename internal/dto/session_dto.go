package dto

import "github.com/google/uuid"

type CreateSessionRequest struct {
	UserId uuid.UUID `json:"user_id" form:"user_id" validate:"required"`
	Title  string    `json:"title" form:"title"`
}

// UpdateSessionRequest is a patch: only supplied fields are merged into the
// stored record. updated_at is stamped on every update regardless.
type UpdateSessionRequest struct {
	Title    *string `json:"title" form:"title"`
	IsActive *bool   `json:"is_active" form:"is_active"`
}

type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
	IsActive  bool      `json:"is_active"`
}
