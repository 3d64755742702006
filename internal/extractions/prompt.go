package extractions

import "fmt"

// freeTextPrompt asks for clauses as a JSON array with an explicit
// example, for providers that can only answer in free text. The answer
// still needs tolerant parsing (see ParseClauses).
func freeTextPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following legal contract and extract all key clauses.
For each clause, provide:
1. clause_type: The category of the clause (e.g., "Payment Terms", "Confidentiality", "Termination", "Liability", "Governing Law", etc.)
2. content: The actual text of the clause
3. page_number: The page number where the clause appears (if mentioned in the text)

Return the result as a JSON array of objects with these fields.

Contract text:
%s

Return only valid JSON in this exact format:
[
  {
    "clause_type": "string",
    "content": "string",
    "page_number": number or null
  }
]
`, text)
}

// schemaPrompt is the bare instructional form used when the provider
// enforces the response schema itself.
func schemaPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following legal contract and extract all key clauses.
For each clause, provide its category label, its literal text, and the page number where it appears (omit the page number if the text does not mention it).

Contract text:
%s
`, text)
}
