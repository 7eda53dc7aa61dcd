// Package render produces output from a fully assembled design.Bundle.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Ruhal-Doshi/hld-bench/internal/design"
)

// JSON produces a pretty-printed JSON representation of the bundle.
// The output round-trips through json.Unmarshal back to an equal Bundle.
func JSON(b *design.Bundle) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("render: nil bundle")
	}
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return out, nil
}

// Markdown produces a GitHub-flavoured Markdown rendering of the bundle,
// suitable for docs sites or terminal output. Both diagrams are emitted as
// mermaid fences.
func Markdown(b *design.Bundle) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder

	fmt.Fprintf(&sb, "## %s\n\n", mdEscape(b.Record.Title))
	fmt.Fprintf(&sb, "**Problem:** %s  \n", b.ProblemID)
	fmt.Fprintf(&sb, "**Model:** %s/%s  \n", b.Provider, b.Model)
	fmt.Fprintf(&sb, "**Outcome:** %s | **Score:** %d/100 | **Attempts:** %d\n\n",
		b.Outcome, b.Score, b.Attempts)

	if b.Record.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", b.Record.Summary)
	}

	if len(b.Record.Components) > 0 {
		sb.WriteString("## Components\n\n")
		sb.WriteString("| Name | Responsibility | Technology |\n")
		sb.WriteString("|---|---|---|\n")
		for _, c := range b.Record.Components {
			fmt.Fprintf(&sb, "| %s | %s | %s |\n",
				mdEscape(c.Name), mdEscape(c.Responsibility), mdEscape(c.Technology))
		}
		sb.WriteString("\n")
	}

	if b.Record.ArchitectureDiagram != "" {
		sb.WriteString("## Architecture\n\n")
		writeMermaid(&sb, b.Record.ArchitectureDiagram)
	}

	if b.Record.SequenceDiagram != "" {
		sb.WriteString("## Request Flow\n\n")
		writeMermaid(&sb, b.Record.SequenceDiagram)
	}

	if len(b.Record.Tradeoffs) > 0 {
		sb.WriteString("## Tradeoffs\n\n")
		sb.WriteString("| Decision | Rationale | Weight |\n")
		sb.WriteString("|---|---|---|\n")
		for _, t := range b.Record.Tradeoffs {
			fmt.Fprintf(&sb, "| %s | %s | %d |\n",
				mdEscape(t.Decision), mdEscape(t.Rationale), t.Weight)
		}
		sb.WriteString("\n")
	}

	if len(b.Record.Risks) > 0 {
		sb.WriteString("## Risks\n\n")
		for _, r := range b.Record.Risks {
			fmt.Fprintf(&sb, "- %s\n", mdEscape(r))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// writeMermaid emits diagram source as a mermaid code fence.
func writeMermaid(sb *strings.Builder, src string) {
	sb.WriteString("```mermaid\n")
	sb.WriteString(strings.TrimRight(src, "\n"))
	sb.WriteString("\n```\n\n")
}

// mdEscape replaces characters that would break Markdown table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return s
}
