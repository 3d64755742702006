package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/amargenjac/contract-clause-extractor/internal/llm"
)

// Near-greedy sampling keeps extraction output stable across runs.
const temperature = float32(0.3)

// clauseSchema constrains structured responses to an array of clause
// objects; page_number is nullable when the model cannot place a clause.
var clauseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"clause_type": {Type: genai.TypeString},
			"content":     {Type: genai.TypeString},
			"page_number": {Type: genai.TypeInteger, Nullable: true},
		},
		Required: []string{"clause_type", "content"},
	},
}

// Client implements llm.SchemaClient using the Gemini API.
type Client struct {
	textModel   *genai.GenerativeModel
	schemaModel *genai.GenerativeModel
}

// NewClient constructs a new Gemini client.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	textModel := client.GenerativeModel(model)
	textModel.SetTemperature(temperature)

	schemaModel := client.GenerativeModel(model)
	schemaModel.SetTemperature(temperature)
	schemaModel.ResponseMIMEType = "application/json"
	schemaModel.ResponseSchema = clauseSchema

	return &Client{
		textModel:   textModel,
		schemaModel: schemaModel,
	}, nil
}

// GenerateText performs one blocking generation round trip and returns
// the concatenated text parts of the first candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.textModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrProvider, err)
	}
	text, err := candidateText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// GenerateClauseJSON requests a schema-validated clause array. The
// returned payload is guaranteed by the API to match clauseSchema.
func (c *Client) GenerateClauseJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := c.schemaModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrProvider, err)
	}
	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: response missing candidates", llm.ErrProvider)
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("%w: response empty content", llm.ErrProvider)
	}
	return out, nil
}

var _ llm.SchemaClient = (*Client)(nil)
