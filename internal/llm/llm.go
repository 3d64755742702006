package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Provider identifies a hosted LLM backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

var (
	// ErrUnsupportedProvider is returned for provider identifiers outside the known set.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrProvider wraps any transport or provider-side failure during generation.
	ErrProvider = errors.New("llm provider error")
)

// ParseProvider validates a raw provider identifier.
func ParseProvider(raw string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, raw)
	}
}

// Client abstracts a text-generation backend. GenerateText is a single
// blocking round trip; no retries or streaming.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SchemaClient is implemented by backends that can enforce a response
// schema and return already-validated JSON instead of free text.
// Callers should prefer this path when available since it removes the
// need for tolerant parsing.
type SchemaClient interface {
	Client
	GenerateClauseJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}
