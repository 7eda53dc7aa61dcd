// Package design orchestrates one benchmark run: it builds the design prompt
// for a problem, drives the structured-output recovery loop to a validated
// record, repairs each diagram-bearing field, and grades the result.
package design

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ruhal-Doshi/hld-bench/internal/grade"
	"github.com/Ruhal-Doshi/hld-bench/internal/llm"
	"github.com/Ruhal-Doshi/hld-bench/internal/mermaid"
	"github.com/Ruhal-Doshi/hld-bench/internal/problem"
	"github.com/Ruhal-Doshi/hld-bench/internal/profile"
	"github.com/Ruhal-Doshi/hld-bench/internal/recovery"
	"github.com/Ruhal-Doshi/hld-bench/internal/schema"
)

// Options configures a Generate call.
type Options struct {
	Provider    string
	Model       string
	Profile     string
	MaxAttempts int
	MaxTokens   int
	Temperature float64
}

// Bundle is the fully-formed artifact for one problem/model pair, ready for
// the record store and renderers.
type Bundle struct {
	ID               string              `json:"id"`
	ProblemID        string              `json:"problem_id"`
	Problem          string              `json:"problem"`
	Provider         string              `json:"provider"`
	Model            string              `json:"model"`
	Record           schema.DesignRecord `json:"record"`
	Outcome          grade.Outcome       `json:"outcome"`
	Score            int                 `json:"score"`
	Attempts         int                 `json:"attempts"`
	Constrained      bool                `json:"constrained"`
	DiagramsRepaired int                 `json:"diagrams_repaired"`
	Elapsed          time.Duration       `json:"elapsed"`
	CreatedAt        time.Time           `json:"created_at"`
}

// RecordSchema returns the schema description for a design record. The
// required key list doubles as the exact top-level key list quoted in
// corrective prompts.
func RecordSchema() *schema.Schema {
	return &schema.Schema{
		Type: schema.TypeObject,
		Required: []string{
			"title", "summary", "components",
			"architecture_diagram", "sequence_diagram", "tradeoffs",
		},
		Properties: map[string]*schema.Schema{
			"title":   {Type: schema.TypeString, Description: "Short name of the proposed design"},
			"summary": {Type: schema.TypeString, Description: "One-paragraph overview of the approach"},
			"components": {
				Type: schema.TypeArray,
				Items: &schema.Schema{
					Type:     schema.TypeObject,
					Required: []string{"name", "responsibility"},
					Properties: map[string]*schema.Schema{
						"name":           {Type: schema.TypeString},
						"responsibility": {Type: schema.TypeString},
						"technology":     {Type: schema.TypeString},
					},
				},
			},
			"architecture_diagram": {Type: schema.TypeString, Description: "mermaid flowchart source"},
			"sequence_diagram":     {Type: schema.TypeString, Description: "mermaid sequence diagram source"},
			"tradeoffs": {
				Type: schema.TypeArray,
				Items: &schema.Schema{
					Type:     schema.TypeObject,
					Required: []string{"decision", "rationale", "weight"},
					Properties: map[string]*schema.Schema{
						"decision":  {Type: schema.TypeString},
						"rationale": {Type: schema.TypeString},
						"weight": {
							Type:    schema.TypeInteger,
							Minimum: schema.Float(1),
							Maximum: schema.Float(100),
						},
					},
				},
			},
			"risks": {
				Type:  schema.TypeArray,
				Items: &schema.Schema{Type: schema.TypeString},
			},
		},
	}
}

// Generate runs the full pipeline for one problem and returns the graded
// bundle. The elapsed time covers the recovery loop only, not diagram repair
// or grading.
func Generate(ctx context.Context, provider llm.Provider, prob problem.Problem, opts Options, logger *zap.Logger) (*Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	profName := opts.Profile
	if profName == "" {
		profName = "general"
	}
	prof, err := profile.Load(profName)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}

	start := time.Now()
	result, err := recovery.Run(ctx, provider, recovery.Request{
		System:      buildSystemPrompt(prof),
		Prompt:      buildUserPrompt(prob),
		Schema:      RecordSchema(),
		MaxAttempts: opts.MaxAttempts,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("design: %s: %w", prob.ID, err)
	}
	elapsed := time.Since(start)

	record, err := decodeRecord(result.Data)
	if err != nil {
		return nil, fmt.Errorf("design: %s: %w", prob.ID, err)
	}

	repaired := 0
	if s := mermaid.Sanitize(record.ArchitectureDiagram); s != record.ArchitectureDiagram {
		record.ArchitectureDiagram = s
		repaired++
	}
	if s := mermaid.Sanitize(record.SequenceDiagram); s != record.SequenceDiagram {
		record.SequenceDiagram = s
		repaired++
	}
	if repaired > 0 {
		logger.Info("diagrams repaired",
			zap.String("problem", prob.ID), zap.Int("count", repaired))
	}

	return &Bundle{
		ID:               uuid.NewString(),
		ProblemID:        prob.ID,
		Problem:          prob.Text,
		Provider:         opts.Provider,
		Model:            opts.Model,
		Record:           record,
		Outcome:          grade.Determine(result.Attempts, repaired),
		Score:            grade.Score(result.Attempts, repaired),
		Attempts:         result.Attempts,
		Constrained:      result.Constrained,
		DiagramsRepaired: repaired,
		Elapsed:          elapsed,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// decodeRecord converts the validator's canonical value into the typed record
// via a JSON round-trip.
func decodeRecord(data any) (schema.DesignRecord, error) {
	var record schema.DesignRecord
	b, err := json.Marshal(data)
	if err != nil {
		return record, fmt.Errorf("encode validated value: %w", err)
	}
	if err := json.Unmarshal(b, &record); err != nil {
		return record, fmt.Errorf("decode design record: %w", err)
	}
	return record, nil
}
