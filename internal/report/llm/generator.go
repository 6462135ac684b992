// Package llm wraps the language model backends that write reports.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/radreport/radreport/internal/report/domain"
)

// Generator turns a fully composed prompt into report text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// GeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var defaultModels = map[string]string{
	ProviderGemini: "gemini-2.0-flash",
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "llama3:instruct",
}

// Options selects and configures a provider.
type Options struct {
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string
	BaseURL      string
	OllamaURL    string
	Temperature  float32
	Timeout      time.Duration
}

// New builds the generator for opts.Provider. A missing API key yields
// domain.ErrModelUnavailable so the server can still start and report the
// misconfiguration per request.
func New(opts Options) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	model := opts.Model
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case ProviderGemini:
		if opts.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", domain.ErrModelUnavailable)
		}
		base := opts.BaseURL
		if base == "" {
			base = GeminiBaseURL
		}
		return NewOpenAI(ProviderGemini, opts.GeminiAPIKey, base, model, opts.Temperature), nil
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", domain.ErrModelUnavailable)
		}
		return NewOpenAI(ProviderOpenAI, opts.OpenAIAPIKey, opts.BaseURL, model, opts.Temperature), nil
	case ProviderOllama:
		if opts.OllamaURL == "" {
			return nil, fmt.Errorf("%w: OLLAMA_URL not set", domain.ErrModelUnavailable)
		}
		return NewOllama(opts.OllamaURL, model, opts.Temperature, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}

// classifyStatus maps a provider HTTP status onto the domain errors.
func classifyStatus(status int, message string) error {
	switch {
	case status == 401 || status == 403:
		return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, message)
	case status == 429:
		return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, message)
	case status == 400 && isSafetyMessage(message):
		return fmt.Errorf("%w: %s", domain.ErrSafetyBlocked, message)
	case status == 400:
		return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, message)
	default:
		return fmt.Errorf("llm status %d: %s", status, message)
	}
}

func isSafetyMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "safety") || strings.Contains(m, "content_filter") || strings.Contains(m, "content management policy")
}
