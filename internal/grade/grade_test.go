package grade

import "testing"

func TestDetermine(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		repaired int
		want     Outcome
	}{
		{"constrained clean", 0, 0, OutcomeClean},
		{"first attempt clean", 1, 0, OutcomeClean},
		{"first attempt with repairs", 1, 2, OutcomeRepaired},
		{"constrained with repairs", 0, 1, OutcomeRepaired},
		{"retried clean diagrams", 3, 0, OutcomeRecovered},
		{"retried and repaired", 2, 1, OutcomeDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Determine(tt.attempts, tt.repaired); got != tt.want {
				t.Errorf("Determine(%d, %d) = %s, want %s", tt.attempts, tt.repaired, got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		attempts int
		repaired int
		want     int
	}{
		{0, 0, 100},
		{1, 0, 100},
		{1, 2, 90},
		{2, 0, 85},
		{3, 1, 65},
		{10, 10, 0}, // clamped
	}
	for _, tt := range tests {
		if got := Score(tt.attempts, tt.repaired); got != tt.want {
			t.Errorf("Score(%d, %d) = %d, want %d", tt.attempts, tt.repaired, got, tt.want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	order := []Outcome{OutcomeClean, OutcomeRepaired, OutcomeRecovered, OutcomeDegraded}
	for i, o := range order {
		if got := Ordinal(o); got != i {
			t.Errorf("Ordinal(%s) = %d, want %d", o, got, i)
		}
	}
	if got := Ordinal(Outcome("BOGUS")); got != -1 {
		t.Errorf("Ordinal(BOGUS) = %d, want -1", got)
	}
}
