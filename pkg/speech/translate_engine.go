package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const translateChunkLimit = 200 // endpoint rejects longer q params

// TranslateEngine is the fallback synthesis engine backed by the Google
// Translate TTS endpoint. Lower quality than the neural primary but needs no
// API key. Long text is split into chunks and the MP3 frames concatenated.
type TranslateEngine struct {
	baseURL string
	lang    string
	client  *http.Client
}

func NewTranslateEngine() *TranslateEngine {
	return &TranslateEngine{
		baseURL: "https://translate.google.com",
		lang:    "en",
		client:  &http.Client{},
	}
}

// NewTranslateEngineWithBaseURL is used by tests to target a stub server.
func NewTranslateEngineWithBaseURL(baseURL string) *TranslateEngine {
	e := NewTranslateEngine()
	e.baseURL = baseURL
	return e
}

func (e *TranslateEngine) Name() string {
	return "google-translate"
}

func (e *TranslateEngine) Synthesize(ctx context.Context, text, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, chunk := range chunkText(text, translateChunkLimit) {
		if err := e.fetchChunk(ctx, chunk, out); err != nil {
			// Remove the partial artifact so the caller never serves a
			// half-written file.
			out.Close()
			os.Remove(outputPath)
			return err
		}
	}
	return nil
}

func (e *TranslateEngine) fetchChunk(ctx context.Context, chunk string, out io.Writer) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", e.lang)
	q.Set("q", chunk)

	reqURL := fmt.Sprintf("%s/translate_tts?%s", e.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("translate tts status %d", res.StatusCode)
	}

	_, err = io.Copy(out, res.Body)
	return err
}

// chunkText splits on word boundaries keeping each chunk under limit runes.
// A single word longer than the limit becomes its own chunk.
func chunkText(text string, limit int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
