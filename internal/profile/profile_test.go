package profile

import (
	"strings"
	"testing"
)

func TestLoadBuiltins(t *testing.T) {
	for _, name := range []string{"general", "microservices", "event-driven", "cost-aware"} {
		p, err := Load(name)
		if err != nil {
			t.Errorf("Load(%q): %v", name, err)
			continue
		}
		if p.Name != name {
			t.Errorf("Load(%q).Name = %q", name, p.Name)
		}
		if p.SystemPromptAddendum == "" {
			t.Errorf("Load(%q) has empty addendum", name)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	_, err := Load("enterprise")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
	if !strings.Contains(err.Error(), `"enterprise"`) || !strings.Contains(err.Error(), "available") {
		t.Errorf("error should name the profile and list alternatives: %v", err)
	}
}
