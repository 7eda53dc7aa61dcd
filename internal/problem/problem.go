// Package problem parses a PROBLEMS.md file into discrete design problems.
// Each numbered or bulleted list item becomes one problem; indented lines are
// treated as continuation of the current item.
package problem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Problem is one design problem extracted from a problems file.
type Problem struct {
	ID        string
	LineStart int
	LineEnd   int
	Text      string
}

// ParseFile reads the file at path and segments it into problems.
func ParseFile(path string) ([]Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("problem: open %s: %w", path, err)
	}
	defer f.Close()
	problems, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("problem: %s: %w", path, err)
	}
	return problems, nil
}

// Parse reads from r and segments it into problems. Headings and prose
// outside list items are ignored.
func Parse(r io.Reader) ([]Problem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var problems []Problem
	var current *Problem
	lineNo := 0
	flush := func() {
		if current != nil {
			current.Text = strings.TrimSpace(current.Text)
			problems = append(problems, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if body, ok := itemStart(line); ok {
			flush()
			current = &Problem{
				ID:        fmt.Sprintf("PROB-%03d", len(problems)+1),
				LineStart: lineNo,
				LineEnd:   lineNo,
				Text:      body,
			}
			continue
		}

		if current == nil {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isIndented(line) {
			flush()
			continue
		}
		current.Text += " " + trimmed
		current.LineEnd = lineNo
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	flush()
	return problems, nil
}

// itemStart reports whether line begins a new list item and returns its body
// with the list prefix stripped.
func itemStart(line string) (string, bool) {
	s := strings.TrimLeft(line, " \t")
	if len(line)-len(s) >= 4 {
		return "", false // indented continuation, not a new item
	}
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		return strings.TrimSpace(s[2:]), true
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:]), true
	}
	return "", false
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
}
