package extractions

import (
	"encoding/json"
	"strings"
)

// ParseClauses tolerantly decodes a clause array out of free-form model
// output. The substring between the first '[' and the last ']' is
// treated as a JSON array; anything around it (prose, markdown fences,
// refusals) is ignored. Missing brackets or a failed decode yield an
// empty slice, never an error, so a malformed response degrades to
// zero clauses instead of failing the request.
func ParseClauses(raw string) []Clause {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return []Clause{}
	}

	var clauses []Clause
	if err := json.Unmarshal([]byte(raw[start:end+1]), &clauses); err != nil {
		return []Clause{}
	}
	if clauses == nil {
		return []Clause{}
	}
	return clauses
}
