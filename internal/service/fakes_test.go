package service

import (
	"context"
	"sort"

	"ai-therapist-be/internal/entity"
	"ai-therapist-be/internal/repository/contract"
	"ai-therapist-be/internal/repository/specification"
	"ai-therapist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// memStore is a shared in-memory backing store so every unit of work handed
// out by the factory sees the same data.
type memStore struct {
	users    []*entity.User
	sessions []*entity.ChatSession
	messages []*entity.ChatMessage
}

type memFactory struct {
	store *memStore
}

func newMemFactory() *memFactory {
	return &memFactory{store: &memStore{}}
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memUnitOfWork) Commit() error                   { return nil }
func (u *memUnitOfWork) Rollback() error                 { return nil }

func (u *memUnitOfWork) UserRepository() contract.UserRepository {
	return &memUserRepository{store: u.store}
}

func (u *memUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepository{store: u.store}
}

func (u *memUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &memMessageRepository{store: u.store}
}

type memUserRepository struct {
	store *memStore
}

func (r *memUserRepository) Create(ctx context.Context, user *entity.User) error {
	cp := *user
	r.store.users = append(r.store.users, &cp)
	return nil
}

func (r *memUserRepository) Update(ctx context.Context, user *entity.User) error {
	for i, u := range r.store.users {
		if u.Id == user.Id {
			cp := *user
			r.store.users[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memUserRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	for i, u := range r.store.users {
		if u.Id == id {
			r.store.users = append(r.store.users[:i], r.store.users[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.store.users {
		if userMatches(u, specs) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func userMatches(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false
			}
		}
	}
	return true
}

type memSessionRepository struct {
	store *memStore
}

func (r *memSessionRepository) Create(ctx context.Context, session *entity.ChatSession) error {
	cp := *session
	r.store.sessions = append(r.store.sessions, &cp)
	return nil
}

func (r *memSessionRepository) Update(ctx context.Context, session *entity.ChatSession) error {
	for i, s := range r.store.sessions {
		if s.Id == session.Id {
			cp := *session
			r.store.sessions[i] = &cp
			return nil
		}
	}
	return nil
}

func (r *memSessionRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	for i, s := range r.store.sessions {
		if s.Id == id {
			r.store.sessions = append(r.store.sessions[:i], r.store.sessions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memSessionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.store.sessions {
		if sessionMatches(s, specs) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if sessionMatches(s, specs) {
			cp := *s
			out = append(out, &cp)
		}
	}
	for _, spec := range specs {
		if ord, ok := spec.(specification.OrderBy); ok && ord.Field == "updated_at" {
			sort.SliceStable(out, func(i, j int) bool {
				if ord.Desc {
					return out[i].UpdatedAt.After(out[j].UpdatedAt)
				}
				return out[i].UpdatedAt.Before(out[j].UpdatedAt)
			})
		}
	}
	return out, nil
}

func (r *memSessionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByID:
			if s.Id != sp.ID {
				return false
			}
		case specification.ByUserID:
			if s.UserId != sp.UserID {
				return false
			}
		}
	}
	return true
}

type memMessageRepository struct {
	store *memStore
}

func (r *memMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	cp := *message
	r.store.messages = append(r.store.messages, &cp)
	return nil
}

func (r *memMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		if messageMatches(m, specs) {
			cp := *m
			out = append(out, &cp)
		}
	}
	for _, spec := range specs {
		if ord, ok := spec.(specification.OrderBy); ok && ord.Field == "created_at" {
			sort.SliceStable(out, func(i, j int) bool {
				if ord.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}
	return out, nil
}

func (r *memMessageRepository) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	var kept []*entity.ChatMessage
	var removed int64
	for _, m := range r.store.messages {
		if m.ChatSessionId != nil && *m.ChatSessionId == sessionId {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	r.store.messages = kept
	return removed, nil
}

func (r *memMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func messageMatches(m *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch sp := spec.(type) {
		case specification.ByUserID:
			if m.UserId != sp.UserID {
				return false
			}
		case specification.ByChatSessionID:
			if m.ChatSessionId == nil || *m.ChatSessionId != sp.ChatSessionID {
				return false
			}
		}
	}
	return true
}

// nopLogger satisfies logger.ILogger for services under test.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type stubCompleter struct {
	reply string
}

func (c stubCompleter) Complete(ctx context.Context, input string) string {
	return c.reply
}

type stubSynthesizer struct {
	path string
	err  error

	calls int
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	s.calls++
	return s.path, s.err
}

type recordingJanitor struct {
	deleted   []string
	scheduled []string
}

func (j *recordingJanitor) DeleteNow(path string) {
	j.deleted = append(j.deleted, path)
}

func (j *recordingJanitor) ScheduleAfterPlayback(text, path string) {
	j.scheduled = append(j.scheduled, path)
}

type stubTranscriber struct {
	text string
	err  error
}

func (t stubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return t.text, t.err
}
