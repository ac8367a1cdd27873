package service

import (
	"context"
	"time"

	"ai-therapist-be/internal/dto"
	"ai-therapist-be/internal/entity"
	"ai-therapist-be/internal/repository/specification"
	"ai-therapist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IMessageService interface {
	Save(ctx context.Context, req *dto.SaveMessageRequest) (*dto.MessageResponse, error)
	// GetChatHistory lists a user's messages ascending by timestamp;
	// sessionId, when non-empty, narrows to that session.
	GetChatHistory(ctx context.Context, userId, sessionId string) ([]*dto.MessageResponse, error)
	GetSessionMessages(ctx context.Context, sessionId string) ([]*dto.MessageResponse, error)
	DeleteSessionMessages(ctx context.Context, sessionId string) (int64, error)
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
	}
}

func (s *messageService) Save(ctx context.Context, req *dto.SaveMessageRequest) (*dto.MessageResponse, error) {
	userId, err := uuid.Parse(req.UserId)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var sessionId *uuid.UUID
	if req.SessionId != "" {
		id, err := uuid.Parse(req.SessionId)
		if err != nil {
			return nil, ErrSessionNotFound
		}
		sessionId = &id
	}

	message := &entity.ChatMessage{
		Id:            uuid.New(),
		UserId:        userId,
		ChatSessionId: sessionId,
		Sender:        req.Sender,
		Message:       req.Message,
		CreatedAt:     time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}
	return messageToResponse(message), nil
}

func (s *messageService) GetChatHistory(ctx context.Context, userId, sessionId string) ([]*dto.MessageResponse, error) {
	id, err := uuid.Parse(userId)
	if err != nil {
		return []*dto.MessageResponse{}, nil
	}

	specs := []specification.Specification{
		specification.ByUserID{UserID: id},
	}
	if sessionId != "" {
		sid, err := uuid.Parse(sessionId)
		if err != nil {
			return []*dto.MessageResponse{}, nil
		}
		specs = append(specs, specification.ByChatSessionID{ChatSessionID: sid})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at"})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return messagesToResponse(messages), nil
}

func (s *messageService) GetSessionMessages(ctx context.Context, sessionId string) ([]*dto.MessageResponse, error) {
	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return []*dto.MessageResponse{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sid},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	return messagesToResponse(messages), nil
}

func (s *messageService) DeleteSessionMessages(ctx context.Context, sessionId string) (int64, error) {
	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return 0, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ChatMessageRepository().DeleteBySessionId(ctx, sid)
}

func messagesToResponse(messages []*entity.ChatMessage) []*dto.MessageResponse {
	res := make([]*dto.MessageResponse, len(messages))
	for i, m := range messages {
		res[i] = messageToResponse(m)
	}
	return res
}

func messageToResponse(m *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        m.Id,
		UserId:    m.UserId,
		SessionId: m.ChatSessionId,
		Sender:    m.Sender,
		Message:   m.Message,
		Timestamp: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
