package ai

import (
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/noteflow/internal/textx"
)

// MaxTags bounds the tag list returned by Tags.
const MaxTags = 5

var wordRe = regexp.MustCompile(`\b\w+\b`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "as": {},
	"is": {}, "was": {}, "are": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {},
}

// Tags extracts up to MaxTags keywords from the title and content. Words
// are ranked by frequency; ties keep first-seen order. The result is never
// nil.
func (s *Service) Tags(title, content string) ([]string, error) {
	if content == "" {
		return nil, ErrContentRequired
	}

	keywords := Keywords(title + " " + content)
	if len(keywords) > MaxTags {
		keywords = keywords[:MaxTags]
	}
	return keywords, nil
}

// Keywords lowercases text, strips markup and returns the words longer
// than three characters that are not stop words, most frequent first.
func Keywords(text string) []string {
	text = textx.StripHTML(strings.ToLower(text))

	freq := map[string]int{}
	order := []string{}
	for _, w := range wordRe.FindAllString(text, -1) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return freq[b] - freq[a]
	})
	return order
}
