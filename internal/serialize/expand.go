package serialize

import "strings"

// Expansions is the set of relation keys a client asked to inline,
// parsed from the `expand` query parameter.
//
// Unknown keys are carried but never acted on, so stale or future
// clients degrade to the flat representation instead of erroring.
type Expansions map[string]struct{}

// ParseExpansions parses a comma-separated expand parameter.
// Empty input yields no expansions (flat representation).
func ParseExpansions(raw string) Expansions {
	e := Expansions{}
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			e[key] = struct{}{}
		}
	}
	return e
}

// Has reports whether the client asked for the given relation.
func (e Expansions) Has(key string) bool {
	_, ok := e[key]
	return ok
}
