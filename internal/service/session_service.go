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

const titleMaxLen = 50

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListByUser(ctx context.Context, userId string) ([]*dto.SessionResponse, error)
	Get(ctx context.Context, id string) (*dto.SessionResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id string) error
	// MaybeRetitle rewrites the session title from the first message. It is
	// a no-op unless the title still equals the default sentinel, so it
	// fires at most once per session.
	MaybeRetitle(ctx context.Context, sessionId uuid.UUID, messageText string) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
	}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	title := req.Title
	if title == "" {
		title = entity.DefaultSessionTitle
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    req.UserId,
		Title:     title,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) ListByUser(ctx context.Context, userId string) ([]*dto.SessionResponse, error) {
	id, err := uuid.Parse(userId)
	if err != nil {
		// A malformed user id matches nothing, same as the source.
		return []*dto.SessionResponse{}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: id},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, len(sessions))
	for i, sess := range sessions {
		res[i] = sessionToResponse(sess)
	}
	return res, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*dto.SessionResponse, error) {
	sessionId, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) Update(ctx context.Context, id string, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	sessionId, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	if req.Title == nil && req.IsActive == nil {
		return nil, ErrNoUpdateFields
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if req.Title != nil {
		session.Title = *req.Title
	}
	if req.IsActive != nil {
		session.IsActive = *req.IsActive
	}
	session.UpdatedAt = time.Now()

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	sessionId, err := uuid.Parse(id)
	if err != nil {
		return ErrSessionNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	// Messages are intentionally left behind; history outlives its session.
	rows, err := uow.ChatSessionRepository().Delete(ctx, sessionId)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *sessionService) MaybeRetitle(ctx context.Context, sessionId uuid.UUID, messageText string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil || session.Title != entity.DefaultSessionTitle {
		return nil
	}

	session.Title = deriveTitle(messageText)
	session.UpdatedAt = time.Now()
	return uow.ChatSessionRepository().Update(ctx, session)
}

// deriveTitle takes the first 50 characters of the message, marking
// truncation with an ellipsis.
func deriveTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return message
}

func sessionToResponse(s *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.UTC().Format(time.RFC3339),
		IsActive:  s.IsActive,
	}
}
