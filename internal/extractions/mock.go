package extractions

import "strings"

const (
	mockTokenLimit   = 100
	mockFirstCutoff  = 30
	mockSecondCutoff = 60
)

// MockClauses produces a deterministic two-clause extraction from the
// first 100 whitespace-delimited tokens of the document text. It backs
// the offline/no-credentials mode and doubles as a stable test fixture:
// the same input text always yields byte-identical output.
func MockClauses(text string) []Clause {
	words := strings.Fields(text)
	if len(words) > mockTokenLimit {
		words = words[:mockTokenLimit]
	}

	first := words
	if len(words) >= mockFirstCutoff {
		first = words[:mockFirstCutoff]
	}

	var second []string
	if len(words) >= mockFirstCutoff {
		second = words[mockFirstCutoff:]
		if len(words) >= mockSecondCutoff {
			second = words[mockFirstCutoff:mockSecondCutoff]
		}
	}

	page := 1
	return []Clause{
		{ClauseType: "General Terms", Content: strings.Join(first, " "), PageNumber: &page},
		{ClauseType: "Obligations", Content: strings.Join(second, " "), PageNumber: &page},
	}
}
