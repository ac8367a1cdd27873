package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"ai-therapist-be/internal/pkg/logger"
)

// Completer maps one user input to one completion. Implementations must not
// fail the caller: upstream trouble degrades into the sentinel reply strings
// the chat client already renders.
type Completer interface {
	Complete(ctx context.Context, input string) string
}

const (
	// PersonaPrompt primes the model before the user input is appended.
	PersonaPrompt = "Be a friendly therapist, no emojis: "

	// Sentinel replies returned instead of errors.
	SentinelConnectionError = "Connection error."
	SentinelGenerationError = "Error generating response"

	defaultEndpoint = "https://generativelanguage.googleapis.com/v1/models/gemini-2.5-flash-lite:generateContent"

	maxOutputTokens = 1024
)

type geminiChatParts struct {
	Text string `json:"text"`
}

type geminiChatContent struct {
	Parts []*geminiChatParts `json:"parts"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

type geminiChatRequest struct {
	Contents         []*geminiChatContent   `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiChatCandidate struct {
	Content *geminiChatContent `json:"content"`
}

type geminiChatResponse struct {
	Candidates []*geminiChatCandidate `json:"candidates"`
}

type GeminiClient struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      logger.ILogger
}

func NewGeminiClient(apiKey string, log logger.ILogger) *GeminiClient {
	return &GeminiClient{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{},
		log:      log,
	}
}

// NewGeminiClientWithEndpoint points the client at a non-default endpoint.
// Used by tests against a local stub server.
func NewGeminiClientWithEndpoint(apiKey, endpoint string, log logger.ILogger) *GeminiClient {
	c := NewGeminiClient(apiKey, log)
	c.endpoint = endpoint
	return c
}

func (c *GeminiClient) Complete(ctx context.Context, input string) string {
	payload := geminiChatRequest{
		Contents: []*geminiChatContent{
			{
				Parts: []*geminiChatParts{
					{Text: PersonaPrompt + input},
				},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: maxOutputTokens,
		},
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("llm", "Failed to marshal Gemini request", map[string]interface{}{"error": err.Error()})
		return SentinelGenerationError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		c.log.Error("llm", "Failed to build Gemini request", map[string]interface{}{"error": err.Error()})
		return SentinelConnectionError
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		c.log.Error("llm", "Gemini request failed", map[string]interface{}{"error": err.Error()})
		return SentinelConnectionError
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		c.log.Error("llm", "Failed to read Gemini response body", map[string]interface{}{"error": err.Error()})
		return SentinelGenerationError
	}

	if res.StatusCode != http.StatusOK {
		// Degraded reply masks the outage from the end user; log it so it
		// does not mask the outage from us too.
		c.log.Error("llm", "Gemini returned non-success status", map[string]interface{}{
			"status": res.StatusCode,
			"body":   string(resBody),
		})
		return SentinelConnectionError
	}

	var geminiRes geminiChatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		c.log.Error("llm", "Failed to decode Gemini response", map[string]interface{}{"error": err.Error()})
		return SentinelGenerationError
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		c.log.Error("llm", "Gemini response has no candidates", map[string]interface{}{"body": string(resBody)})
		return SentinelGenerationError
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text
}
