package extractions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amargenjac/contract-clause-extractor/internal/llm"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/telemetry"
)

// ClientSource resolves a provider identifier to a client. The second
// result is false when the provider has no credentials configured.
type ClientSource interface {
	Client(ctx context.Context, provider llm.Provider) (llm.Client, bool, error)
}

// LLMExtractor turns contract text into clauses via the selected
// provider, falling back to the deterministic mock when the provider
// is unconfigured.
type LLMExtractor struct {
	Clients ClientSource
}

// Extract builds the extraction prompt, invokes the provider, and
// decodes the response into clauses. Transport failures are the one
// fatal condition; malformed model output degrades to zero clauses.
func (e *LLMExtractor) Extract(ctx context.Context, text string, provider llm.Provider) ([]Clause, error) {
	client, configured, err := e.Clients.Client(ctx, provider)
	if err != nil {
		return nil, fmt.Errorf("extract clauses: %w", err)
	}
	if !configured {
		// Intentional offline mode, not an error path.
		telemetry.Info("extraction.mock", map[string]any{"provider": string(provider)})
		return MockClauses(text), nil
	}

	if schemaClient, ok := client.(llm.SchemaClient); ok {
		return extractStructured(ctx, schemaClient, text)
	}

	raw, err := client.GenerateText(ctx, freeTextPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("extract clauses: %w", err)
	}
	return ParseClauses(raw), nil
}

// extractStructured uses the schema-enforced path; the payload is
// already validated, so a decode failure is a provider fault rather
// than parse degradation.
func extractStructured(ctx context.Context, client llm.SchemaClient, text string) ([]Clause, error) {
	raw, err := client.GenerateClauseJSON(ctx, schemaPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("extract clauses: %w", err)
	}
	var clauses []Clause
	if err := json.Unmarshal(raw, &clauses); err != nil {
		return nil, fmt.Errorf("extract clauses: %w: decode structured response: %v", llm.ErrProvider, err)
	}
	if clauses == nil {
		clauses = []Clause{}
	}
	return clauses, nil
}
