package chunker

import (
	"sort"
	"strings"

	"github.com/iamshreeyyy/hackxr/core"
)

const maxKeyPhrases = 5

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "with": {}, "this": {},
	"that": {}, "from": {}, "have": {}, "will": {}, "been": {}, "were": {},
	"they": {}, "their": {}, "which": {}, "shall": {}, "such": {}, "upon": {},
	"under": {}, "into": {}, "than": {}, "then": {}, "when": {}, "where": {},
	"while": {}, "would": {}, "could": {}, "should": {}, "there": {},
	"these": {}, "those": {}, "also": {}, "each": {}, "other": {},
}

// keyPhrases extracts up to five representative bigrams and trigrams from
// the text. Selection is by descending frequency with first-occurrence
// order breaking ties, so the result is deterministic.
func keyPhrases(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.Trim(w, ".,;:!?()[]{}\"'")
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		words = append(words, w)
	}

	counts := make(map[string]int)
	order := make(map[string]int)
	record := func(phrase string) {
		if _, seen := counts[phrase]; !seen {
			order[phrase] = len(order)
		}
		counts[phrase]++
	}

	for i := 0; i+1 < len(words); i++ {
		bigram := words[i] + " " + words[i+1]
		if len(bigram) > 6 {
			record(bigram)
		}
	}
	for i := 0; i+2 < len(words); i++ {
		trigram := words[i] + " " + words[i+1] + " " + words[i+2]
		if len(trigram) > 10 {
			record(trigram)
		}
	}

	phrases := make([]string, 0, len(counts))
	for phrase := range counts {
		phrases = append(phrases, phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if counts[phrases[i]] != counts[phrases[j]] {
			return counts[phrases[i]] > counts[phrases[j]]
		}
		return order[phrases[i]] < order[phrases[j]]
	})

	if len(phrases) > maxKeyPhrases {
		phrases = phrases[:maxKeyPhrases]
	}
	return phrases
}

// contentType classifies a chunk by scanning for insurance domain keywords.
// Families are checked in a fixed order so classification is stable.
func contentType(text string) core.ContentType {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "policy", "coverage", "premium", "deductible"):
		return core.ContentPolicy
	case containsAny(lower, "waiting", "period", "eligible", "claim"):
		return core.ContentEligibility
	case containsAny(lower, "amount", "payment", "reimbursement", "$"):
		return core.ContentFinancial
	case containsAny(lower, "exclusion", "not covered", "limitation"):
		return core.ContentExclusion
	case strings.Count(text, ":") > 2 || strings.Count(text, "|") > 2:
		return core.ContentStructured
	default:
		return core.ContentGeneral
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
