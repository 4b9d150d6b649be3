package search

import (
	_ "embed"
	"strings"

	"github.com/spigell/foundermatch/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const maxQueryRunes = 300

var queryReplacer = strings.NewReplacer(
	"[", "(",
	"]", ")",
	"{{", "(",
	"}}", ")",
)

func buildPrompt(query, corpusJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Query:\n{{QUERY}}\n\nMarketplace snapshot:\n{{CORPUS_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{QUERY}}", query)
	prompt = strings.ReplaceAll(prompt, "{{CORPUS_JSON}}", corpusJSON)
	return prompt
}

// sanitizeQuery keeps the query on one line, neutralizes section markers and
// template placeholders and caps its length.
func sanitizeQuery(query string) string {
	query = utils.SingleLine(queryReplacer.Replace(query))

	runes := []rune(query)
	if len(runes) > maxQueryRunes {
		query = strings.TrimSpace(string(runes[:maxQueryRunes]))
	}
	return query
}
