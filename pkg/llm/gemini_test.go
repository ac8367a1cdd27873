package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func TestGeminiClient_Complete(t *testing.T) {
	var gotBody geminiChatRequest
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))

		res := geminiChatResponse{
			Candidates: []*geminiChatCandidate{
				{Content: &geminiChatContent{Parts: []*geminiChatParts{{Text: "I'm here for you."}}}},
			},
		}
		json.NewEncoder(w).Encode(res)
	}))
	defer srv.Close()

	client := NewGeminiClientWithEndpoint("test-key", srv.URL, nopLogger{})
	reply := client.Complete(context.Background(), "I feel anxious")

	assert.Equal(t, "I'm here for you.", reply)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, maxOutputTokens, gotBody.GenerationConfig.MaxOutputTokens)

	// The persona instruction is prepended to whatever the user said.
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	sent := gotBody.Contents[0].Parts[0].Text
	assert.True(t, strings.HasPrefix(sent, PersonaPrompt))
	assert.True(t, strings.HasSuffix(sent, "I feel anxious"))
}

func TestGeminiClient_Complete_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewGeminiClientWithEndpoint("test-key", srv.URL, nopLogger{})
	assert.Equal(t, SentinelConnectionError, client.Complete(context.Background(), "hello"))
}

func TestGeminiClient_Complete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewGeminiClientWithEndpoint("test-key", srv.URL, nopLogger{})
	assert.Equal(t, SentinelConnectionError, client.Complete(context.Background(), "hello"))
}

func TestGeminiClient_Complete_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "no candidates", body: `{"candidates":[]}`},
		{name: "candidate without content", body: `{"candidates":[{}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			client := NewGeminiClientWithEndpoint("test-key", srv.URL, nopLogger{})
			assert.Equal(t, SentinelGenerationError, client.Complete(context.Background(), "hello"))
		})
	}
}
