// Package profile defines design review profiles that modulate LLM prompt
// construction. Each profile provides a SystemPromptAddendum that is appended
// to the system prompt sent to the LLM.
package profile

import "fmt"

// Profile describes a design emphasis strategy.
type Profile struct {
	Name                 string
	Description          string
	SystemPromptAddendum string
}

// builtins is the registry of built-in profiles keyed by name.
var builtins = map[string]Profile{
	"general": {
		Name:        "general",
		Description: "Default profile; balanced treatment of all design concerns.",
		SystemPromptAddendum: "Weigh scalability, reliability, and simplicity equally. When a " +
			"requirement is ambiguous, state the assumption you made in the 'summary' field " +
			"rather than guessing silently.",
	},
	"microservices": {
		Name:        "microservices",
		Description: "Service-decomposition emphasis; every component must own its data.",
		SystemPromptAddendum: "Decompose the system into independently deployable services. " +
			"Every component must name the service boundary it belongs to and own its data " +
			"store. Flag any shared database in the tradeoffs with a high weight.",
	},
	"event-driven": {
		Name:        "event-driven",
		Description: "Asynchronous-messaging emphasis; prefer events over synchronous calls.",
		SystemPromptAddendum: "Prefer asynchronous event flows over synchronous request/response " +
			"wherever consistency requirements allow. The sequence diagram must show the message " +
			"broker explicitly. Record every synchronous call you keep as a tradeoff.",
	},
	"cost-aware": {
		Name:        "cost-aware",
		Description: "Cost-optimization emphasis; justify every managed service.",
		SystemPromptAddendum: "Optimize for operating cost. Justify every managed service in the " +
			"component's responsibility text, and record cheaper alternatives you rejected in " +
			"the tradeoffs with their weights.",
	},
}

// Load returns the named built-in profile or an error if the name is unknown.
func Load(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile: unknown profile %q (available: general, microservices, event-driven, cost-aware)", name)
	}
	return p, nil
}
