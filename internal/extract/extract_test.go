package extract

import (
	"reflect"
	"testing"
)

func TestFenced(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "json tagged fence",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "fence surrounded by prose",
			raw:  "Here you go:\n```json\n{\"a\": 1}\n```\nHope that helps!",
			want: `{"a": 1}`,
		},
		{
			name: "inline fence without newline",
			raw:  "```{\"a\": 1}```",
			want: `{"a": 1}`,
		},
		{
			name: "first of two fences wins",
			raw:  "```\nfirst\n```\nand\n```\nsecond\n```",
			want: "first",
		},
		{
			name: "no fence passes through",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "prose without fence passes through",
			raw:  "I cannot produce that.",
			want: "I cannot produce that.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fenced(tt.raw); got != tt.want {
				t.Errorf("Fenced(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDecodeWellFormed(t *testing.T) {
	v, err := Decode(`{"a": 1, "b": ["x"]}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := map[string]any{"a": float64(1), "b": []any{"x"}}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("Decode = %#v, want %#v", v, want)
	}
}

func TestDecodeRepairsAlmostJSON(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
	}{
		{"single quotes", `{'a': 1}`},
		{"trailing comma", `{"a": 1,}`},
		{"unquoted keys", `{a: 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Decode(tt.candidate)
			if err != nil {
				t.Fatalf("Decode(%q): %v", tt.candidate, err)
			}
			obj, ok := v.(map[string]any)
			if !ok || obj["a"] != float64(1) {
				t.Errorf("Decode(%q) = %#v, want map with a=1", tt.candidate, v)
			}
		})
	}
}
