package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ai-therapist-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Engine converts text into an audio file. Implementations are swappable
// black boxes; the Synthesizer only decides which one runs and where the
// output lands.
type Engine interface {
	Synthesize(ctx context.Context, text, outputPath string) error
	Name() string
}

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Synthesizer tries the primary neural engine and falls back transparently
// to the secondary one. Output names are timestamp + short random suffix so
// concurrent requests never collide without locking.
type Synthesizer struct {
	primary   Engine
	fallback  Engine
	outputDir string
	log       logger.ILogger
}

func NewSynthesizer(primary, fallback Engine, outputDir string, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		primary:   primary,
		fallback:  fallback,
		outputDir: outputDir,
		log:       log,
	}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("response_%s_%s.mp3",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
	)
	outputPath := filepath.Join(s.outputDir, filename)

	if err := s.primary.Synthesize(ctx, text, outputPath); err != nil {
		s.log.Warn("speech", "Primary TTS engine failed, falling back", map[string]interface{}{
			"engine":   s.primary.Name(),
			"fallback": s.fallback.Name(),
			"error":    err.Error(),
		})
		if err := s.fallback.Synthesize(ctx, text, outputPath); err != nil {
			return "", fmt.Errorf("both TTS engines failed: %w", err)
		}
	}

	return outputPath, nil
}
