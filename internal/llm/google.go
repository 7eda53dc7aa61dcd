package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	googleoption "google.golang.org/api/option"

	"github.com/Ruhal-Doshi/hld-bench/internal/schema"
)

// googleProvider implements Provider using the Google Generative AI SDK.
// The API key is stored at construction time; a new genai.Client is created
// per Complete call so that the caller's context governs the connection and
// the client is always closed after use.
type googleProvider struct {
	apiKey string
	model  string
}

func newGoogleProvider(model string) (Provider, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: GOOGLE_API_KEY environment variable not set")
	}
	return &googleProvider{apiKey: apiKey, model: model}, nil
}

// SupportsNativeSchema reports true: generation config accepts a response
// schema alongside the JSON MIME type.
func (p *googleProvider) SupportsNativeSchema() bool { return true }

func (p *googleProvider) Complete(ctx context.Context, req Request) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("google: request contained no messages")
	}

	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("google: genai client: %w", err)
	}
	defer client.Close()

	m := client.GenerativeModel(p.model)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}
	maxOut := int32(req.MaxTokens)
	m.MaxOutputTokens = &maxOut
	temp32 := float32(req.Temperature)
	m.Temperature = &temp32
	// Force JSON output mode to prevent the model from wrapping the response
	// in markdown code fences.
	m.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		m.ResponseSchema = toGenaiSchema(req.Schema)
	}

	cs := m.StartChat()
	for _, msg := range req.Messages[:len(req.Messages)-1] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	last := req.Messages[len(req.Messages)-1]
	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("google: generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("google: response contained no text content")
	}
	return strings.Join(parts, ""), nil
}

// toGenaiSchema converts a schema description to the SDK's schema type.
// Numeric bounds are not representable in genai.Schema; the local validator
// still enforces them after decoding.
func toGenaiSchema(s *schema.Schema) *genai.Schema {
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case schema.TypeObject:
		out.Type = genai.TypeObject
		out.Required = s.Required
		if len(s.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
			for key, field := range s.Properties {
				out.Properties[key] = toGenaiSchema(field)
			}
		}
	case schema.TypeArray:
		out.Type = genai.TypeArray
		if s.Items != nil {
			out.Items = toGenaiSchema(s.Items)
		}
	case schema.TypeInteger:
		out.Type = genai.TypeInteger
	case schema.TypeNumber:
		out.Type = genai.TypeNumber
	case schema.TypeBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
		out.Enum = s.Enum
	}
	return out
}
