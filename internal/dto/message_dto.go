package dto

import "github.com/google/uuid"

type SaveMessageRequest struct {
	UserId    string `json:"user_id" form:"user_id" validate:"required,uuid"`
	SessionId string `json:"session_id" form:"session_id" validate:"omitempty,uuid"`
	Sender    string `json:"sender" form:"sender" validate:"required,oneof=user assistant"`
	Message   string `json:"message" form:"message" validate:"required"`
}

type MessageResponse struct {
	Id        uuid.UUID  `json:"id"`
	UserId    uuid.UUID  `json:"user_id"`
	SessionId *uuid.UUID `json:"session_id,omitempty"`
	Sender    string     `json:"sender"`
	Message   string     `json:"message"`
	Timestamp string     `json:"timestamp"`
}
