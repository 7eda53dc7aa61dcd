// Package mermaid repairs the dominant classes of syntax errors a language
// model introduces into mermaid diagram source. The pipeline is textual and
// heuristic, not a grammar: every stage is an independent pure function that
// degrades to a no-op on input it does not recognize, so source that cannot
// be fully repaired is still passed through for manual inspection.
package mermaid

import (
	"regexp"
	"strings"
)

// Sanitize runs the ordered repair stages over src. The pipeline is
// deterministic and idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(src string) string {
	for _, stage := range stages {
		src = stage(src)
	}
	return src
}

// stages run strictly in this order; each stage's output is the next stage's
// input.
var stages = []func(string) string{
	unescapeWhitespace,
	stripFences,
	stripTrailingComments,
	collapseLabelBreaks,
	replaceAmpersands,
	quoteParenLabels,
	repairSubgraphTitles,
	normalizeEscapedQuotes,
	declareParticipants,
}

// unescapeWhitespace replaces literal \n and \t escape sequences with real
// line breaks and double-space indentation. Producers frequently emit escaped
// rather than literal whitespace inside generated text fields.
func unescapeWhitespace(src string) string {
	src = strings.ReplaceAll(src, `\n`, "\n")
	src = strings.ReplaceAll(src, `\t`, "  ")
	return src
}

// openFenceRe matches a leading mermaid-tagged (or bare) code fence line.
var openFenceRe = regexp.MustCompile("^\\s*```(?:mermaid)?[ \t]*\n")

// stripFences removes a leading mermaid code fence and a trailing fence,
// leaving raw diagram source.
func stripFences(src string) string {
	if loc := openFenceRe.FindStringIndex(src); loc != nil {
		src = src[loc[1]:]
	}
	trimmed := strings.TrimRight(src, " \t\n")
	if strings.HasSuffix(trimmed, "```") {
		src = strings.TrimRight(trimmed[:len(trimmed)-3], " \t\n")
	}
	return src
}

// stripTrailingComments removes trailing whitespace, trailing %% comment
// lines, and any stray trailing % characters appended after the final
// diagram statement.
func stripTrailingComments(src string) string {
	src = strings.TrimRight(src, " \t\n")
	for {
		i := strings.LastIndex(src, "\n")
		if i < 0 {
			break
		}
		if !strings.HasPrefix(strings.TrimSpace(src[i+1:]), "%%") {
			break
		}
		src = strings.TrimRight(src[:i], " \t\n")
	}
	return strings.TrimRight(src, "% \t\n")
}

// quotedLabelRe matches a bracketed quoted node label, including labels whose
// quoted text spans multiple lines.
var quotedLabelRe = regexp.MustCompile(`(?s)\["[^"]*"\]`)

// lineBreakRe matches a line break and any indentation that follows it.
var lineBreakRe = regexp.MustCompile(`\n[ \t]*`)

// collapseLabelBreaks collapses embedded line breaks inside bracketed quoted
// labels into single spaces. An embedded line break inside a label terminates
// the statement prematurely in the mermaid grammar.
func collapseLabelBreaks(src string) string {
	return quotedLabelRe.ReplaceAllStringFunc(src, func(label string) string {
		return lineBreakRe.ReplaceAllString(label, " ")
	})
}

// quotedSpanRe matches a single-line double-quoted span.
var quotedSpanRe = regexp.MustCompile(`"[^"\n]*"`)

// replaceAmpersands rewrites ampersands inside quoted labels as the word
// "and". The grammar reserves & for entity-reference syntax.
func replaceAmpersands(src string) string {
	return quotedSpanRe.ReplaceAllStringFunc(src, func(span string) string {
		return strings.ReplaceAll(span, "&", "and")
	})
}

// unquotedParenLabelRe matches a bracketed node label that contains
// parenthesized text and is not already quoted.
var unquotedParenLabelRe = regexp.MustCompile(`\[([^"\[\]\n]*\([^"\[\]\n]*)\]`)

// quoteParenLabels wraps bracketed labels containing parentheses in quotes.
// Parentheses are structurally significant outside of quoted labels.
func quoteParenLabels(src string) string {
	return unquotedParenLabelRe.ReplaceAllString(src, `["$1"]`)
}

// subgraphTitleRe matches a subgraph declaration whose title contains
// parentheses and is not already in id["title"] form.
var subgraphTitleRe = regexp.MustCompile(`(?m)^([ \t]*)subgraph[ \t]+([^"\[\]\n]*\([^"\[\]\n]*?)[ \t]*$`)

// maxSubgraphID bounds the length of synthesized subgraph identifiers.
const maxSubgraphID = 24

// repairSubgraphTitles rewrites `subgraph Title (With Parens)` declarations to
// `subgraph safeId["Title (With Parens)"]`.
func repairSubgraphTitles(src string) string {
	return subgraphTitleRe.ReplaceAllStringFunc(src, func(line string) string {
		m := subgraphTitleRe.FindStringSubmatch(line)
		title := strings.TrimSpace(m[2])
		return m[1] + "subgraph " + alphanumeric(title, maxSubgraphID) + `["` + title + `"]`
	})
}

// alphanumeric strips every non-alphanumeric character from s and truncates
// the result to max bytes.
func alphanumeric(s string, max int) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= max {
			break
		}
	}
	return b.String()
}

// normalizeEscapedQuotes replaces escaped double-quote sequences with plain
// single quotes. Nested escaped quotes only ever appear inside quoted labels
// in producer output, and the mermaid label parser does not support them.
func normalizeEscapedQuotes(src string) string {
	return strings.ReplaceAll(src, `\"`, "'")
}
