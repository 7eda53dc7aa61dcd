// Package grade provides deterministic local logic for scoring a completed
// generation run. No LLM calls are made here.
package grade

// Outcome classifies how much intervention a run needed.
type Outcome string

const (
	// OutcomeClean: the first response validated and no diagram needed repair.
	OutcomeClean Outcome = "CLEAN"
	// OutcomeRepaired: the first response validated but at least one diagram
	// was rewritten by the sanitizer.
	OutcomeRepaired Outcome = "REPAIRED"
	// OutcomeRecovered: the record validated only after corrective retries.
	OutcomeRecovered Outcome = "RECOVERED"
	// OutcomeDegraded: corrective retries were needed and diagrams were
	// rewritten on top of that.
	OutcomeDegraded Outcome = "DEGRADED"
)

// Determine applies the outcome rules.
//
// Rules (in order of precedence):
//  1. Retries consumed and diagrams rewritten → DEGRADED
//  2. Retries consumed → RECOVERED
//  3. Diagrams rewritten → REPAIRED
//  4. Otherwise → CLEAN
//
// attempts counts manual-loop completions; a constrained-path success passes
// zero. A single manual attempt is not a retry.
func Determine(attempts, diagramsRepaired int) Outcome {
	retried := attempts > 1
	repaired := diagramsRepaired > 0
	switch {
	case retried && repaired:
		return OutcomeDegraded
	case retried:
		return OutcomeRecovered
	case repaired:
		return OutcomeRepaired
	default:
		return OutcomeClean
	}
}

// Score calculates the run score from intervention counts.
// Start at 100; subtract 15 per retry beyond the first attempt and 5 per
// rewritten diagram; clamp to [0, 100].
func Score(attempts, diagramsRepaired int) int {
	retries := attempts - 1
	if retries < 0 {
		retries = 0
	}
	score := 100 - retries*15 - diagramsRepaired*5
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Ordinal returns the numeric ordinal for an outcome, used to compare
// severity order. CLEAN=0, REPAIRED=1, RECOVERED=2, DEGRADED=3.
// Used by --fail-on comparison: exit 2 if Ordinal(actual) >= Ordinal(threshold).
func Ordinal(o Outcome) int {
	switch o {
	case OutcomeClean:
		return 0
	case OutcomeRepaired:
		return 1
	case OutcomeRecovered:
		return 2
	case OutcomeDegraded:
		return 3
	default:
		return -1
	}
}
