package design

import (
	"fmt"
	"strings"

	"github.com/Ruhal-Doshi/hld-bench/internal/problem"
	"github.com/Ruhal-Doshi/hld-bench/internal/profile"
)

// buildSystemPrompt assembles the LLM system prompt.
func buildSystemPrompt(prof profile.Profile) string {
	var sb strings.Builder

	sb.WriteString("You are a principal systems architect producing a high-level design.\n\n")

	sb.WriteString("Output ONLY valid JSON conforming to the schema below. " +
		"No prose, no markdown, no explanation outside the JSON.\n\n")

	sb.WriteString("The architecture_diagram field must contain mermaid flowchart source. " +
		"The sequence_diagram field must contain mermaid sequenceDiagram source. " +
		"Use literal line breaks inside the diagram fields, declare every participant, " +
		"and quote any node label that contains parentheses.\n\n")

	if prof.SystemPromptAddendum != "" {
		sb.WriteString(prof.SystemPromptAddendum)
		sb.WriteString("\n\n")
	}

	sb.WriteString(outputSchema)

	return sb.String()
}

// outputSchema is the JSON schema fragment shown to the LLM.
const outputSchema = `Output schema (JSON only):
{
  "title": "Short design name",
  "summary": "One-paragraph overview of the approach",
  "components": [
    {"name": "API Gateway", "responsibility": "...", "technology": "optional"}
  ],
  "architecture_diagram": "flowchart TD\n  A[\"Client\"] --> B[\"API Gateway\"]\n  ...",
  "sequence_diagram": "sequenceDiagram\n  participant C as \"Client\"\n  C->>G: request\n  ...",
  "tradeoffs": [
    {"decision": "...", "rationale": "...", "weight": 1}
  ],
  "risks": ["optional list of risk statements"]
}
weight is an integer between 1 and 100.
`

// buildUserPrompt assembles the LLM user prompt for one problem.
func buildUserPrompt(prob problem.Problem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Design problem %s:\n\n%s\n\n", prob.ID, prob.Text)
	sb.WriteString("Produce the JSON design record now.")
	return sb.String()
}
