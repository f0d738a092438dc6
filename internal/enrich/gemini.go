package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for enrichment.
const DefaultModel = "gemini-2.5-flash-lite"

// systemInstruction is the fixed contract sent with every batch. The rules
// mirror the response schema: spelling check first, then either the full set
// of linguistic fields or only an issue description, with the input fields
// always echoed unchanged.
const systemInstruction = `You are a Russian linguistic expert. Process the provided JSON list of Russian words and phrases.

RULES:
1. PRIMARY CHECK: For each item, verify the spelling of 'russian'.
2. IF MISSPELLED:
   - Populate 'spelling_error' with a brief explanation.
   - You MUST leave 'stressed_russian', 'romanized', and 'english' unpopulated.
   - You MUST still echo the original 'russian' and 'category' fields.
3. IF CORRECT:
   - Leave 'spelling_error' unpopulated.
   - STRESSED: Populate 'stressed_russian' using the combining acute accent (U+0301).
   - ROMANIZE: Use BGN/PCGN style (e.g., 'щ'->'shch', 'й'->'y', 'ё'->'yo', 'ь'->').
   - TRANSLATE: Provide the 'english' translation.
4. EXCEPTION: If 'category' is 'Nonstandard Spelling', skip the spelling
   check and treat the text as correct.
5. ECHO: Always return the 'category' and 'russian' fields exactly as they
   were received, one output item per input item, in input order.`

// noteSchema describes the structured JSON response the model must produce.
var noteSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"notes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"russian": {
						Type:        genai.TypeString,
						Description: "The original unmodified russian text provided in the input.",
					},
					"category": {
						Type:        genai.TypeString,
						Description: "Copy of the unmodified category provided in the input.",
					},
					"stressed_russian": {
						Type:        genai.TypeString,
						Description: "The russian text with acute accents on stressed vowels.",
					},
					"romanized": {
						Type:        genai.TypeString,
						Description: "Latin transliteration using the BGN/PCGN system.",
					},
					"english": {
						Type:        genai.TypeString,
						Description: "The English translation of the russian text.",
					},
					"spelling_error": {
						Type:        genai.TypeString,
						Description: "If a spelling error is detected, a brief description. Otherwise omitted.",
					},
				},
				Required: []string{"russian", "category"},
			},
		},
	},
	Required: []string{"notes"},
}

// Model is the minimal text-generation contract the dispatcher needs; it
// exists so tests can substitute a canned implementation.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel implements Model over the Gemini API with structured JSON
// output. Calls go through a circuit breaker so a failing upstream aborts
// the run quickly instead of timing out batch after batch.
type GeminiModel struct {
	client  *genai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
}

// NewGeminiModel creates a Gemini-backed enrichment model. An empty API key
// is a configuration error surfaced before any request is made.
func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, &ConfigError{Reason: "Gemini API key not configured"}
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "gemini",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &GeminiModel{client: client, model: model, breaker: breaker}, nil
}

// Generate sends one batch prompt and returns the raw JSON response text.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := m.breaker.Execute(func() (interface{}, error) {
		resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt),
			&genai.GenerateContentConfig{
				ResponseMIMEType:  "application/json",
				ResponseSchema:    noteSchema,
				SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			})
		if err != nil {
			return nil, fmt.Errorf("Gemini API error: %w", err)
		}
		text := resp.Text()
		if text == "" {
			return nil, fmt.Errorf("empty response from Gemini")
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
