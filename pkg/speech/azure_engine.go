package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const (
	azureOutputFormat = "audio-24khz-48kbitrate-mono-mp3"

	// Fixed voice identity and prosody, matching the client's expectations.
	DefaultVoice = "en-GB-RyanNeural"
	DefaultRate  = "+10%"
	DefaultPitch = "+0Hz"
)

// AzureEngine is the primary, cloud-hosted neural voice engine. It speaks
// SSML to the Azure Cognitive Services TTS REST endpoint.
type AzureEngine struct {
	endpoint string
	apiKey   string
	voice    string
	rate     string
	pitch    string
	client   *http.Client
}

func NewAzureEngine(region, apiKey string) *AzureEngine {
	return &AzureEngine{
		endpoint: fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", region),
		apiKey:   apiKey,
		voice:    DefaultVoice,
		rate:     DefaultRate,
		pitch:    DefaultPitch,
		client:   &http.Client{},
	}
}

// NewAzureEngineWithEndpoint is used by tests to target a stub server.
func NewAzureEngineWithEndpoint(endpoint, apiKey string) *AzureEngine {
	e := NewAzureEngine("", apiKey)
	e.endpoint = endpoint
	return e
}

func (e *AzureEngine) Name() string {
	return "azure-neural"
}

func (e *AzureEngine) ssml(text string) string {
	var b strings.Builder
	b.WriteString(`<speak version="1.0" xml:lang="en-GB">`)
	b.WriteString(fmt.Sprintf(`<voice name="%s">`, e.voice))
	b.WriteString(fmt.Sprintf(`<prosody rate="%s" pitch="%s">`, e.rate, e.pitch))
	b.WriteString(escapeXML(text))
	b.WriteString(`</prosody></voice></speak>`)
	return b.String()
}

func (e *AzureEngine) Synthesize(ctx context.Context, text, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, strings.NewReader(e.ssml(text)))
	if err != nil {
		return err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", e.apiKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)

	res, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("azure tts status %d: %s", res.StatusCode, string(body))
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, res.Body)
	return err
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
