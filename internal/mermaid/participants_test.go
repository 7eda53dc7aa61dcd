package mermaid

import (
	"strings"
	"testing"
)

func TestDeclareParticipants(t *testing.T) {
	src := "sequenceDiagram\nUser Service->>Auth Service: login"
	want := "sequenceDiagram\n" +
		"    participant User_Service as \"User Service\"\n" +
		"    participant Auth_Service as \"Auth Service\"\n" +
		"User_Service->>Auth_Service: login"
	if got := Sanitize(src); got != want {
		t.Errorf("Sanitize:\n got: %q\nwant: %q", got, want)
	}
}

func TestDeclareParticipantsActivationMarkers(t *testing.T) {
	src := "sequenceDiagram\n" +
		"  Client App->>+Order Service: place order\n" +
		"  Order Service-->>-Client App: ack"
	got := Sanitize(src)
	want := "sequenceDiagram\n" +
		"    participant Client_App as \"Client App\"\n" +
		"    participant Order_Service as \"Order Service\"\n" +
		"  Client_App->>+Order_Service: place order\n" +
		"  Order_Service-->>-Client_App: ack"
	if got != want {
		t.Errorf("Sanitize:\n got: %q\nwant: %q", got, want)
	}
}

func TestDeclareParticipantsSkipsDeclaredAndSafe(t *testing.T) {
	src := "sequenceDiagram\n" +
		"    participant Gateway\n" +
		"    Gateway->>Billing Dept: charge"
	got := Sanitize(src)
	if !strings.Contains(got, `participant Billing_Dept as "Billing Dept"`) {
		t.Errorf("missing declaration for Billing Dept:\n%q", got)
	}
	if strings.Contains(got, `participant Gateway as`) {
		t.Errorf("already-declared participant was redeclared:\n%q", got)
	}
	if strings.Count(got, "participant") != 2 {
		t.Errorf("expected exactly 2 participant lines:\n%q", got)
	}
}

func TestDeclareParticipantsDeclarationOrder(t *testing.T) {
	src := "sequenceDiagram\n" +
		"  Web Tier->>App Tier: call\n" +
		"  App Tier->>Data Tier: query"
	got := Sanitize(src)
	web := strings.Index(got, `participant Web_Tier`)
	app := strings.Index(got, `participant App_Tier`)
	data := strings.Index(got, `participant Data_Tier`)
	if web < 0 || app < 0 || data < 0 {
		t.Fatalf("missing declarations:\n%q", got)
	}
	if !(web < app && app < data) {
		t.Errorf("declarations out of first-discovery order:\n%q", got)
	}
}

func TestDeclareParticipantsOverlappingNames(t *testing.T) {
	src := "sequenceDiagram\nUser Service->>User Service 2: hi"
	got := Sanitize(src)
	want := "sequenceDiagram\n" +
		"    participant User_Service as \"User Service\"\n" +
		"    participant User_Service_2 as \"User Service 2\"\n" +
		"User_Service->>User_Service_2: hi"
	if got != want {
		t.Errorf("Sanitize:\n got: %q\nwant: %q", got, want)
	}
	if twice := Sanitize(got); twice != got {
		t.Errorf("not idempotent:\n once: %q\ntwice: %q", got, twice)
	}
}

func TestDeclareParticipantsSkipsHyphenatedEndpoints(t *testing.T) {
	src := "sequenceDiagram\nFront-End Tier->>API: go"
	if got := Sanitize(src); got != src {
		t.Errorf("hyphenated endpoint line was modified: %q", got)
	}
}

func TestDeclareParticipantsRequiresHeader(t *testing.T) {
	src := "flowchart TD\n  User Service --> B"
	if got := Sanitize(src); got != src {
		t.Errorf("non-sequence source was modified: %q", got)
	}
}

func TestDeclareParticipantsIdempotent(t *testing.T) {
	src := "sequenceDiagram\nUser Service->>Auth Service: login\nAuth Service-->>User Service: token"
	once := Sanitize(src)
	if twice := Sanitize(once); twice != once {
		t.Errorf("not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestSafeIdentifier(t *testing.T) {
	tests := []struct{ in, want string }{
		{"User Service", "User_Service"},
		{"Cache (L2)", "Cache__L2_"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := safeIdentifier(tt.in); got != tt.want {
			t.Errorf("safeIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
