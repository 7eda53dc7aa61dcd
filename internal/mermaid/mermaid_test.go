package mermaid

import "testing"

func TestSanitizeStages(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "escaped whitespace becomes literal",
			src:  `flowchart TD\n  A --> B`,
			want: "flowchart TD\n  A --> B",
		},
		{
			name: "mermaid fences stripped",
			src:  "```mermaid\nflowchart TD\n  A --> B\n```",
			want: "flowchart TD\n  A --> B",
		},
		{
			name: "bare fences stripped",
			src:  "```\nflowchart TD\n  A --> B\n```\n",
			want: "flowchart TD\n  A --> B",
		},
		{
			name: "trailing comment lines removed",
			src:  "flowchart TD\n  A --> B\n  %% generated\n%%",
			want: "flowchart TD\n  A --> B",
		},
		{
			name: "stray trailing percent removed",
			src:  "flowchart TD\n  A --> B%",
			want: "flowchart TD\n  A --> B",
		},
		{
			name: "line break inside quoted label collapsed",
			src:  "flowchart TD\n  A[\"multi\n    word label\"] --> B",
			want: "flowchart TD\n  A[\"multi word label\"] --> B",
		},
		{
			name: "ampersand in quoted label replaced",
			src:  "flowchart TD\n  A[\"Cache & DB\"] --> B",
			want: "flowchart TD\n  A[\"Cache and DB\"] --> B",
		},
		{
			name: "parenthesized label quoted",
			src:  "flowchart TD\n  A[Load Balancer (Nginx)] --> B[API]",
			want: "flowchart TD\n  A[\"Load Balancer (Nginx)\"] --> B[API]",
		},
		{
			name: "parenthesized subgraph title repaired",
			src:  "flowchart TD\n  subgraph Data Layer (Primary)\n    A --> B\n  end",
			want: "flowchart TD\n  subgraph DataLayerPrimary[\"Data Layer (Primary)\"]\n    A --> B\n  end",
		},
		{
			name: "escaped quotes become single quotes",
			src:  "flowchart TD\n  A[\"He said \\\"ok\\\"\"]",
			want: "flowchart TD\n  A[\"He said 'ok'\"]",
		},
		{
			name: "clean flowchart untouched",
			src:  "flowchart TD\n  A --> B",
			want: "flowchart TD\n  A --> B",
		},
		{
			name: "unrecognized source passes through",
			src:  "this is not a diagram",
			want: "this is not a diagram",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.src)
			if got != tt.want {
				t.Errorf("Sanitize(%q)\n got: %q\nwant: %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"```mermaid\nflowchart TD\n  A[Load Balancer (Nginx)] --> B[\"Cache & DB\"]\n%% note\n```",
		`flowchart TD\n  subgraph Workers (Async)\n    A --> B\n  end`,
		"sequenceDiagram\nUser Service->>Auth Service: login",
		"flowchart TD\n  A[\"multi\n  line\"] --> B",
		"no diagram here",
	}
	for _, src := range inputs {
		once := Sanitize(src)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize is not idempotent for %q:\n once: %q\ntwice: %q", src, once, twice)
		}
	}
}

func TestSanitizeCombinedRepairs(t *testing.T) {
	src := "```mermaid\\nflowchart TD\\n  A[Gateway (Envoy)] --> B[\"Cache & DB\"]\\n```"
	want := "flowchart TD\n  A[\"Gateway (Envoy)\"] --> B[\"Cache and DB\"]"
	if got := Sanitize(src); got != want {
		t.Errorf("Sanitize:\n got: %q\nwant: %q", got, want)
	}
}
