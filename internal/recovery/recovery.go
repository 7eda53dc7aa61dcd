// Package recovery implements the structured-output recovery loop. It drives
// a completion provider across a bounded number of attempts until a response
// validates against a schema description, feeding each attempt's validation
// issues back to the producer as a corrective prompt.
//
// The loop is a synchronous, single-flow state machine: one outstanding
// completion request at a time, attempts strictly sequential, no shared state
// across invocations. Concurrent Run calls for independent problem/model
// pairs need no locking.
package recovery

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Ruhal-Doshi/hld-bench/internal/extract"
	"github.com/Ruhal-Doshi/hld-bench/internal/llm"
	"github.com/Ruhal-Doshi/hld-bench/internal/schema"
)

// Request configures one recovery run. The schema description and attempt
// budget are passed explicitly; the package holds no configuration state.
type Request struct {
	System      string
	Prompt      string
	Schema      *schema.Schema
	MaxAttempts int
	MaxTokens   int
	Temperature float64
}

// Result is a successful recovery outcome.
type Result struct {
	// Data is the validated value coerced to the schema's canonical shape.
	Data any
	// Attempts is the number of manual-loop completions consumed; zero when
	// the constrained path succeeded outright.
	Attempts int
	// Constrained reports whether the native schema-constrained attempt
	// produced the accepted response.
	Constrained bool
	// Raw is the accepted response text before extraction.
	Raw string
}

// ExhaustedError is returned when every attempt is consumed without a valid
// result. It carries the final issue set for diagnostics.
type ExhaustedError struct {
	Attempts int
	Issues   []schema.Issue
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "recovery: no valid response after %d attempts", e.Attempts)
	if len(e.Issues) > 0 {
		b.WriteString("; last issues:")
		for _, issue := range e.Issues {
			fmt.Fprintf(&b, "\n- %s", issue)
		}
	}
	return b.String()
}

// Run executes the recovery loop against provider.
//
// When the provider supports native schema-constrained decoding, a single
// constrained attempt is made first; if it validates, that is the cheap path
// and the loop never starts. An invalid-input rejection on that attempt falls
// back to the manual loop; any other error aborts immediately, since retrying
// auth or rate-limit failures here would waste the attempt budget that the
// caller's own backoff policy should own.
//
// The manual loop appends an explicit key instruction to the prompt and
// retries up to req.MaxAttempts times, feeding each failure's issues back as
// a correction message. Decode failures count as validation failures. A
// transport error mid-loop is logged and the loop continues while attempts
// remain; cancellation is terminal.
func Run(ctx context.Context, provider llm.Provider, req Request, logger *zap.Logger) (*Result, error) {
	if req.MaxAttempts < 1 {
		return nil, fmt.Errorf("recovery: max attempts must be at least 1, got %d", req.MaxAttempts)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if provider.SupportsNativeSchema() {
		raw, err := provider.Complete(ctx, llm.Request{
			System:      req.System,
			Messages:    []llm.Message{{Role: llm.RoleUser, Content: req.Prompt}},
			Schema:      req.Schema,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		switch {
		case err != nil && !llm.IsInvalidRequest(err):
			return nil, fmt.Errorf("recovery: constrained attempt: %w", err)
		case err != nil:
			logger.Debug("constrained attempt rejected, falling back to manual loop", zap.Error(err))
		default:
			data, issues := evaluate(raw, req.Schema)
			if len(issues) == 0 {
				return &Result{Data: data, Constrained: true, Raw: raw}, nil
			}
			logger.Debug("constrained attempt failed validation, falling back to manual loop",
				zap.Int("issues", len(issues)))
		}
	}

	messages := []llm.Message{{
		Role:    llm.RoleUser,
		Content: req.Prompt + "\n\n" + keyInstruction(req.Schema),
	}}
	var lastIssues []schema.Issue

	for attempt := 1; attempt <= req.MaxAttempts; attempt++ {
		raw, err := provider.Complete(ctx, llm.Request{
			System:      req.System,
			Messages:    messages,
			MaxTokens:   req.MaxTokens,
			Temperature: req.Temperature,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("recovery: canceled: %w", err)
			}
			if attempt == req.MaxAttempts {
				return nil, fmt.Errorf("recovery: attempt %d: %w", attempt, err)
			}
			logger.Warn("completion failed, continuing to next attempt",
				zap.Int("attempt", attempt), zap.Error(err))
			continue
		}

		data, issues := evaluate(raw, req.Schema)
		if len(issues) == 0 {
			return &Result{Data: data, Attempts: attempt, Raw: raw}, nil
		}
		lastIssues = issues
		logger.Debug("attempt failed validation",
			zap.Int("attempt", attempt), zap.Int("issues", len(issues)))

		// Feed the failure back: the producer's own turn first, then the
		// correction request quoting the formatted issues.
		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: raw},
			llm.Message{Role: llm.RoleUser, Content: correction(issues)},
		)
	}

	return nil, &ExhaustedError{Attempts: req.MaxAttempts, Issues: lastIssues}
}

// evaluate extracts, decodes, and validates one raw response. A decode
// failure is reported as a root-path issue so it drives the same retry path
// as a validation failure.
func evaluate(raw string, s *schema.Schema) (any, []schema.Issue) {
	candidate := extract.Fenced(raw)
	value, err := extract.Decode(candidate)
	if err != nil {
		return nil, []schema.Issue{{Path: "$", Message: fmt.Sprintf("response is not well-formed JSON: %v", err)}}
	}
	return s.Validate(value)
}

// keyInstruction names the exact required top-level keys and demands a single
// raw payload with no enclosing markup.
func keyInstruction(s *schema.Schema) string {
	var b strings.Builder
	b.WriteString("Respond with a single raw JSON object and no surrounding markup or prose. ")
	b.WriteString("The object must contain these top-level keys: ")
	for i, key := range s.Required {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", key)
	}
	b.WriteString(".")
	return b.String()
}

// correction formats validation issues as the corrective follow-up prompt.
func correction(issues []schema.Issue) string {
	var b strings.Builder
	b.WriteString("That response failed validation:\n")
	for _, issue := range issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}
	b.WriteString("\nReturn a single corrected JSON object with the required top-level keys and no surrounding markup. Do not repeat the errors.")
	return b.String()
}
