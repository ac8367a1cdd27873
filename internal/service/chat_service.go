package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-therapist-be/internal/dto"
	"ai-therapist-be/internal/entity"
	"ai-therapist-be/internal/pkg/logger"
	"ai-therapist-be/internal/repository/unitofwork"
	"ai-therapist-be/pkg/llm"
	"ai-therapist-be/pkg/speech"

	"github.com/google/uuid"
)

// SpeechSynthesizer is the slice of pkg/speech.Synthesizer the orchestrator
// needs; narrowed so tests can stub it.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// ArtifactJanitor handles both cleanup policies: immediate for consumed
// input files, delete-after-estimated-playback for synthesized replies.
type ArtifactJanitor interface {
	DeleteNow(path string)
	ScheduleAfterPlayback(text, path string)
}

type IChatService interface {
	AudioTurn(ctx context.Context, req *dto.AudioTurnRequest, file *multipart.FileHeader) (*dto.TurnResponse, error)
	TextTurn(ctx context.Context, req *dto.TextTurnRequest, withAudio bool) (*dto.TurnResponse, error)
}

// chatService runs one conversation turn end to end. The steps are strictly
// sequential and non-transactional: a failure partway leaves partial state
// (e.g. a user message with no assistant reply), which is accepted.
type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	sessionService ISessionService
	completer      llm.Completer
	synthesizer    SpeechSynthesizer
	transcriber    speech.Transcriber
	janitor        ArtifactJanitor
	log            logger.ILogger
	baseURL        string
	tempAudioPath  string
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionService ISessionService,
	completer llm.Completer,
	synthesizer SpeechSynthesizer,
	transcriber speech.Transcriber,
	artifactJanitor ArtifactJanitor,
	log logger.ILogger,
	baseURL string,
	tempAudioPath string,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		sessionService: sessionService,
		completer:      completer,
		synthesizer:    synthesizer,
		transcriber:    transcriber,
		janitor:        artifactJanitor,
		log:            log,
		baseURL:        baseURL,
		tempAudioPath:  tempAudioPath,
	}
}

func (s *chatService) AudioTurn(ctx context.Context, req *dto.AudioTurnRequest, file *multipart.FileHeader) (*dto.TurnResponse, error) {
	if err := s.saveUpload(file, s.tempAudioPath); err != nil {
		return nil, err
	}

	text, err := s.transcriber.Transcribe(ctx, s.tempAudioPath)
	// The input file is consumed the moment transcription returns, whether
	// it worked or not.
	s.janitor.DeleteNow(s.tempAudioPath)
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(text)
	if input == "" {
		return nil, ErrNoSpeech
	}

	return s.runTurn(ctx, req.UserId, req.SessionId, input, true)
}

func (s *chatService) TextTurn(ctx context.Context, req *dto.TextTurnRequest, withAudio bool) (*dto.TurnResponse, error) {
	input := strings.TrimSpace(req.InputText)
	if input == "" {
		return nil, ErrEmptyInput
	}
	return s.runTurn(ctx, req.UserId, req.SessionId, input, withAudio)
}

func (s *chatService) runTurn(ctx context.Context, userIdStr, sessionIdStr, input string, withAudio bool) (*dto.TurnResponse, error) {
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var sessionId *uuid.UUID
	if sessionIdStr != "" {
		id, err := uuid.Parse(sessionIdStr)
		if err != nil {
			return nil, ErrSessionNotFound
		}
		sessionId = &id
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		UserId:        userId,
		ChatSessionId: sessionId,
		Sender:        entity.SenderUser,
		Message:       input,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}

	if sessionId != nil {
		if err := s.sessionService.MaybeRetitle(ctx, *sessionId, input); err != nil {
			// Cosmetic; the turn continues.
			s.log.Warn("chat", "Session retitle failed", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
		}
	}

	reply := s.completer.Complete(ctx, input)

	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		UserId:        userId,
		ChatSessionId: sessionId,
		Sender:        entity.SenderAssistant,
		Message:       reply,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	res := &dto.TurnResponse{
		Message:   input,
		Response:  reply,
		SessionId: sessionIdStr,
	}

	if withAudio {
		audioPath, err := s.synthesizer.Synthesize(ctx, reply)
		if err != nil {
			// Text reply still stands; the client just gets no audio.
			s.log.Error("chat", "Speech synthesis failed", map[string]interface{}{"error": err.Error()})
		} else {
			s.janitor.ScheduleAfterPlayback(reply, audioPath)
			res.AudioURL = fmt.Sprintf("%s/uploads/%s", s.baseURL, filepath.Base(audioPath))
		}
	}

	return res, nil
}

func (s *chatService) saveUpload(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
