package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Ruhal-Doshi/hld-bench/internal/design"
	"github.com/Ruhal-Doshi/hld-bench/internal/grade"
	"github.com/Ruhal-Doshi/hld-bench/internal/schema"
)

func testBundle() *design.Bundle {
	return &design.Bundle{
		ID:        "b-1",
		ProblemID: "PROB-001",
		Problem:   "Design a URL shortener.",
		Provider:  "anthropic",
		Model:     "test-model",
		Record: schema.DesignRecord{
			Title:   "Link Shortener",
			Summary: "Hash, store, redirect.",
			Components: []schema.Component{
				{Name: "API | Edge", Responsibility: "Accept requests", Technology: "Go"},
			},
			ArchitectureDiagram: "flowchart TD\n  A --> B",
			SequenceDiagram:     "sequenceDiagram\n  C->>S: go",
			Tradeoffs: []schema.Tradeoff{
				{Decision: "SQL over KV", Rationale: "simple ops", Weight: 40},
			},
			Risks: []string{"single region"},
		},
		Outcome:  grade.OutcomeClean,
		Score:    100,
		Attempts: 1,
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(testBundle())

	for _, want := range []string{
		"## Link Shortener",
		"**Problem:** PROB-001",
		"**Model:** anthropic/test-model",
		"**Outcome:** CLEAN | **Score:** 100/100 | **Attempts:** 1",
		"## Components",
		`| API \| Edge | Accept requests | Go |`,
		"## Architecture",
		"```mermaid\nflowchart TD\n  A --> B\n```",
		"## Request Flow",
		"sequenceDiagram",
		"## Tradeoffs",
		"| SQL over KV | simple ops | 40 |",
		"## Risks",
		"- single region",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownOmitsEmptySections(t *testing.T) {
	b := testBundle()
	b.Record.Risks = nil
	b.Record.Tradeoffs = nil
	md := Markdown(b)
	if strings.Contains(md, "## Risks") || strings.Contains(md, "## Tradeoffs") {
		t.Errorf("empty sections rendered:\n%s", md)
	}
}

func TestMarkdownNil(t *testing.T) {
	if got := Markdown(nil); got != "" {
		t.Errorf("Markdown(nil) = %q, want empty", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	b := testBundle()
	out, err := JSON(b)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var back design.Bundle
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != b.ID || back.Record.Title != b.Record.Title || back.Score != b.Score {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestJSONNil(t *testing.T) {
	if _, err := JSON(nil); err == nil {
		t.Fatal("expected error for nil bundle")
	}
}
