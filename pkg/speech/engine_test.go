package speech

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAzureEngine_Synthesize(t *testing.T) {
	var gotKey, gotFormat, gotBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		gotFormat = r.Header.Get("X-Microsoft-OutputFormat")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, "mp3-bytes")
	}))
	defer srv.Close()

	e := NewAzureEngineWithEndpoint(srv.URL, "azure-key")
	out := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, e.Synthesize(context.Background(), "hello", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
	assert.Equal(t, "azure-key", gotKey)
	assert.Equal(t, azureOutputFormat, gotFormat)
	assert.Contains(t, gotBody, ">hello<")
}

func TestAzureEngine_Synthesize_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid subscription", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewAzureEngineWithEndpoint(srv.URL, "bad-key")
	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "azure tts status 401")
}

func TestTranslateEngine_Synthesize(t *testing.T) {
	var gotQueries []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate_tts", r.URL.Path)
		assert.Equal(t, "tw-ob", r.URL.Query().Get("client"))
		assert.Equal(t, "en", r.URL.Query().Get("tl"))
		gotQueries = append(gotQueries, r.URL.Query().Get("q"))
		io.WriteString(w, "frame|")
	}))
	defer srv.Close()

	e := NewTranslateEngineWithBaseURL(srv.URL)
	out := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, e.Synthesize(context.Background(), "hello world", out))

	assert.Equal(t, []string{"hello world"}, gotQueries)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "frame|", string(data))
}

func TestTranslateEngine_Synthesize_ChunksLongText(t *testing.T) {
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.LessOrEqual(t, len(r.URL.Query().Get("q")), translateChunkLimit)
		io.WriteString(w, "frame|")
	}))
	defer srv.Close()

	// ~500 chars of text forces at least three chunks.
	text := ""
	for i := 0; i < 100; i++ {
		text += "word "
	}

	e := NewTranslateEngineWithBaseURL(srv.URL)
	out := filepath.Join(t.TempDir(), "out.mp3")
	require.NoError(t, e.Synthesize(context.Background(), text, out))

	assert.GreaterOrEqual(t, requests, 3)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	// One frame per chunk, concatenated in order.
	assert.Len(t, data, requests*len("frame|"))
}

func TestTranslateEngine_Synthesize_RemovesPartialFile(t *testing.T) {
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, "frame|")
	}))
	defer srv.Close()

	text := ""
	for i := 0; i < 100; i++ {
		text += "word "
	}

	e := NewTranslateEngineWithBaseURL(srv.URL)
	out := filepath.Join(t.TempDir(), "out.mp3")
	err := e.Synthesize(context.Background(), text, out)
	require.Error(t, err)

	assert.NoFileExists(t, out)
}
