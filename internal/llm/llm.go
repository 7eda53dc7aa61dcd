// Package llm handles LLM provider communication: a provider-neutral
// completion contract over role-tagged messages, optional native
// schema-constrained decoding, and an error taxonomy that distinguishes
// invalid-input rejections from transport failures.
package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Ruhal-Doshi/hld-bench/internal/schema"
)

// Role tags one transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged transcript entry. The system prompt is carried
// separately on the Request because every provider treats it out of band.
type Message struct {
	Role    Role
	Content string
}

// Request describes one completion call.
type Request struct {
	System   string
	Messages []Message
	// Schema, when non-nil and the provider supports native
	// schema-constrained decoding, is attached as an output constraint.
	// Providers without native support ignore it.
	Schema      *schema.Schema
	MaxTokens   int
	Temperature float64
}

// Provider is the interface for LLM backends.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	// SupportsNativeSchema reports whether the backend can bias decoding
	// toward a schema natively.
	SupportsNativeSchema() bool
}

// ErrInvalidRequest marks a provider rejection caused by request content
// (schema-constrained decoding rejected the output, or the request payload
// was judged invalid) as opposed to a transport failure.
var ErrInvalidRequest = errors.New("llm: provider rejected request content")

// invalidStatusRe matches the HTTP status codes providers return for
// content-level rejections, anchored to how the SDKs format them
// ("POST ...: 400 Bad Request", "googleapi: Error 400: ...", "status 422").
// The anchor keeps those digits appearing elsewhere in a message (token
// counts, model names) from classifying as invalid input.
var invalidStatusRe = regexp.MustCompile(`(?:status(?:[ _]?code)?[:= ]+|[Ee]rror[:= ]+|:\s*)(400|422)\b`)

// IsInvalidRequest reports whether err is an invalid-input condition rather
// than a transport failure.
func IsInvalidRequest(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidRequest) {
		return true
	}
	return invalidStatusRe.MatchString(err.Error())
}

// NewProvider is the factory for creating LLM providers. It is a package-level
// variable so tests can replace it with a mock without modifying the call
// site. Tests must restore the original value; use t.Cleanup to do so safely.
var NewProvider func(providerName, model string) (Provider, error) = defaultNewProvider

// defaultNewProvider dispatches to the appropriate provider implementation.
func defaultNewProvider(providerName, model string) (Provider, error) {
	switch strings.ToLower(providerName) {
	case "anthropic", "":
		return newAnthropicProvider(model)
	case "openai":
		return newOpenAIProvider(model)
	case "google":
		return newGoogleProvider(model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", providerName)
	}
}
