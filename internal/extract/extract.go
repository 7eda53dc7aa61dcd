// Package extract pulls candidate structured payloads out of raw producer
// text. Language models frequently wrap JSON in markdown code fences or emit
// almost-JSON; extraction is best-effort and never fails, decoding repairs
// what it can before giving up.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// fenceRe matches the first triple-backtick fenced block, with an optional
// language tag after the opening fence and an optional trailing newline before
// the closing fence.
var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\n?(.*?)```")

// Fenced returns the interior of the first fenced block in raw, or raw
// unchanged when no fence is present. Only the first match is used; if a
// response legitimately contains two fenced blocks the producer's intent is
// ambiguous and this deliberately does not guess.
func Fenced(raw string) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return raw
}

// Decode parses candidate as JSON. When plain decoding fails it attempts a
// one-shot repair (unquoted keys, single quotes, trailing commas, and similar
// producer mistakes) and retries before reporting a decode failure.
func Decode(candidate string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(candidate)
		if rerr != nil {
			return nil, fmt.Errorf("extract: decode: %w (repair failed: %v)", err, rerr)
		}
		if err2 := json.Unmarshal([]byte(repaired), &v); err2 != nil {
			return nil, fmt.Errorf("extract: decode repaired payload: %w", err2)
		}
	}
	return v, nil
}
