package problem

import (
	"strings"
	"testing"
)

const sampleProblems = `# Design Problems

Some introductory prose that is not a problem.

1. Design a URL shortener
   that serves 100M links.

2) Design a chat system.

- Design a rate limiter.
* Design a news feed.
Not indented, so this ends the previous item.
`

func TestParse(t *testing.T) {
	problems, err := Parse(strings.NewReader(sampleProblems))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(problems) != 4 {
		t.Fatalf("expected 4 problems, got %d: %+v", len(problems), problems)
	}

	first := problems[0]
	if first.ID != "PROB-001" {
		t.Errorf("ID = %q, want PROB-001", first.ID)
	}
	if first.Text != "Design a URL shortener that serves 100M links." {
		t.Errorf("continuation not joined: %q", first.Text)
	}
	if first.LineStart != 5 || first.LineEnd != 6 {
		t.Errorf("lines = %d..%d, want 5..6", first.LineStart, first.LineEnd)
	}

	wantTexts := []string{
		"Design a chat system.",
		"Design a rate limiter.",
		"Design a news feed.",
	}
	for i, want := range wantTexts {
		if got := problems[i+1].Text; got != want {
			t.Errorf("problems[%d].Text = %q, want %q", i+1, got, want)
		}
	}
	if problems[3].ID != "PROB-004" {
		t.Errorf("ID = %q, want PROB-004", problems[3].ID)
	}
}

func TestParseIgnoresDeeplyIndentedItemMarkers(t *testing.T) {
	src := "1. Top-level problem\n    - this nested bullet is a continuation\n"
	problems, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d", len(problems))
	}
	if !strings.Contains(problems[0].Text, "nested bullet") {
		t.Errorf("nested line not folded into item: %q", problems[0].Text)
	}
}

func TestParseEmpty(t *testing.T) {
	problems, err := Parse(strings.NewReader("# Heading only\n\nprose\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %+v", problems)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("does-not-exist.md")
	if err == nil || !strings.Contains(err.Error(), "does-not-exist.md") {
		t.Fatalf("expected open error naming the path, got %v", err)
	}
}
