package textx

import "regexp"

// MaxGrammarHints caps how many hints Check reports.
const MaxGrammarHints = 5

// Hint is a single grammar or style remark about a piece of text.
type Hint struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Position int    `json:"position"`
}

type grammarRule struct {
	pattern *regexp.Regexp
	kind    string
	message string
}

// Rules are evaluated in order and every match of a rule is reported before
// the next rule runs.
var grammarRules = []grammarRule{
	{pattern: regexp.MustCompile(`\bi\s`), kind: "Capitalization", message: `Use capital "I"`},
	{pattern: regexp.MustCompile(`(?i)\bits\b`), kind: "Spelling", message: `Did you mean "it's"?`},
	{pattern: regexp.MustCompile(`(?i)\b(your|you're)\b`), kind: "Grammar", message: "Check your/you're usage"},
	{pattern: regexp.MustCompile(`\.{2,}`), kind: "Punctuation", message: "Use proper punctuation (... for ellipsis)"},
	{pattern: regexp.MustCompile(`\s{2,}`), kind: "Spacing", message: "Remove extra spaces"},
}

// CheckGrammar runs the built-in rules over text and returns at most
// MaxGrammarHints hints. Positions are byte offsets into text.
func CheckGrammar(text string) []Hint {
	hints := make([]Hint, 0, MaxGrammarHints)

	for _, rule := range grammarRules {
		for _, loc := range rule.pattern.FindAllStringIndex(text, -1) {
			hints = append(hints, Hint{Type: rule.kind, Message: rule.message, Position: loc[0]})
			if len(hints) == MaxGrammarHints {
				return hints
			}
		}
	}

	return hints
}
