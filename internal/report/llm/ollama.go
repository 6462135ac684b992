package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/radreport/radreport/internal/report/domain"
)

// OllamaGenerator calls a local Ollama server's /api/generate endpoint.
type OllamaGenerator struct {
	BaseURL     string
	Model       string
	Temperature float32
	HTTP        *http.Client
}

func NewOllama(baseURL, model string, temperature float32, timeout time.Duration) *OllamaGenerator {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &OllamaGenerator{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		Model:       model,
		Temperature: temperature,
		HTTP:        &http.Client{Timeout: timeout},
	}
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (g *OllamaGenerator) Name() string {
	return ProviderOllama
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	b, err := json.Marshal(ollamaRequest{
		Model:  g.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": g.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("ollama encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/generate", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama read: %w", err)
	}

	var out ollamaResponse
	decodeErr := json.Unmarshal(raw, &out)
	if resp.StatusCode >= 400 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", classifyStatus(resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("ollama decode: %w", decodeErr)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", domain.ErrEmptyResponse
	}
	return out.Response, nil
}
