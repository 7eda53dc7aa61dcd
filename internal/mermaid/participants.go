package mermaid

import (
	"regexp"
	"sort"
	"strings"
)

// sequenceHeaderRe matches the sequence-diagram header line. The participant
// repair stage only applies to the sequence dialect.
var sequenceHeaderRe = regexp.MustCompile(`(?m)^[ \t]*sequenceDiagram[ \t]*$`)

// participantDeclRe captures identifiers already declared via participant or
// actor statements.
var participantDeclRe = regexp.MustCompile(`(?m)^[ \t]*(?:participant|actor)[ \t]+(\S+)`)

// arrowRe splits a message line into source endpoint, arrow token, and target
// endpoint. It covers the solid/dotted sync, async, cross, and open-arrow
// forms, with optional activation markers. The endpoint class excludes the
// hyphen so the arrow token stays unambiguous; a hyphenated endpoint name
// ("Front-End Tier") therefore does not match and its line passes through
// unrepaired.
var arrowRe = regexp.MustCompile(`^[ \t]*([^-<>]+?)[ \t]*(-{1,2}(?:>>|[>x)]))[+-]?[ \t]*([^:]+?)[ \t]*:`)

// safeIdentRe matches identifiers legal in unquoted identifier position.
var safeIdentRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// declareParticipants finds message endpoints that contain whitespace or other
// non-identifier characters and are not already declared, rewrites every
// occurrence to a synthesized safe identifier, and inserts one
// `participant <safeId> as "<raw>"` declaration per discovered identifier
// immediately after the header, in first-discovery order.
//
// The rewrite is a global textual replacement: if a raw identifier string
// recurs outside identifier position (for example inside a note that happens
// to contain the same words) it is rewritten there too. That blast radius is
// inherited behavior and is deliberately not second-guessed here.
func declareParticipants(src string) string {
	loc := sequenceHeaderRe.FindStringIndex(src)
	if loc == nil {
		return src
	}

	declared := make(map[string]bool)
	for _, m := range participantDeclRe.FindAllStringSubmatch(src, -1) {
		declared[m[1]] = true
	}

	// Ordered raw -> safe identifier map; insertion order determines
	// declaration order in the output.
	safe := make(map[string]string)
	var order []string
	for _, line := range strings.Split(src, "\n") {
		m := arrowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		for _, endpoint := range []string{m[1], m[3]} {
			name := strings.TrimSpace(strings.TrimLeft(endpoint, "+-"))
			name = strings.TrimSpace(name)
			if name == "" || declared[name] || safeIdentRe.MatchString(name) {
				continue
			}
			if _, seen := safe[name]; !seen {
				safe[name] = safeIdentifier(name)
				order = append(order, name)
			}
		}
	}
	if len(order) == 0 {
		return src
	}

	// Rewrite longest name first: when one raw name is a prefix of another
	// ("User Service", "User Service 2"), replacing the shorter one first
	// would corrupt the longer one before its turn. Declaration order below
	// still follows first discovery.
	byLength := append([]string(nil), order...)
	sort.SliceStable(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })
	for _, raw := range byLength {
		src = strings.ReplaceAll(src, raw, safe[raw])
	}

	// The header position may have shifted during replacement; find it again
	// before inserting declarations.
	loc = sequenceHeaderRe.FindStringIndex(src)
	var b strings.Builder
	b.WriteString(src[:loc[1]])
	for _, raw := range order {
		b.WriteString("\n    participant " + safe[raw] + ` as "` + raw + `"`)
	}
	b.WriteString(src[loc[1]:])
	return b.String()
}

// safeIdentifier replaces every non-alphanumeric character in raw with an
// underscore.
func safeIdentifier(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
