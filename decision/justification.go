package decision

import (
	"fmt"
	"slices"
	"strings"

	"github.com/iamshreeyyy/hackxr/core"
)

const excerptLen = 100

var decisionSummaries = map[core.Decision]string{
	core.DecisionApproved:       "The claim has been APPROVED based on policy analysis.",
	core.DecisionRejected:       "The claim has been REJECTED due to policy violations.",
	core.DecisionRequiresReview: "The claim REQUIRES MANUAL REVIEW due to policy ambiguities.",
	core.DecisionPending:        "The claim is PENDING additional information or clarification.",
}

// buildJustification renders a human-readable explanation of the decision:
// the outcome, each factor with a status marker, the violated and satisfied
// rules, the two most relevant evidence excerpts, and any warnings.
func buildJustification(outcome core.Decision, factors []core.DecisionFactor, validation core.ValidationResult, evidence []core.Evidence) string {
	var parts []string

	summary, ok := decisionSummaries[outcome]
	if !ok {
		summary = "Decision status unclear."
	}
	parts = append(parts, summary)

	parts = append(parts, "\nKey Decision Factors:")
	for _, factor := range factors {
		switch factor.Status {
		case core.FactorPositive:
			parts = append(parts, "✓ "+factor.Description)
		case core.FactorNegative:
			parts = append(parts, "✗ "+factor.Description)
		default:
			parts = append(parts, "• "+factor.Description)
		}
	}

	if len(validation.ViolatedRules) > 0 {
		parts = append(parts, "\nPolicy Violations: "+strings.Join(validation.ViolatedRules, ", "))
	}
	if len(validation.SatisfiedRules) > 0 {
		shown := validation.SatisfiedRules
		if len(shown) > 3 {
			shown = shown[:3]
		}
		parts = append(parts, "Satisfied Requirements: "+strings.Join(shown, ", "))
	}

	if len(evidence) > 0 {
		ranked := make([]core.Evidence, len(evidence))
		copy(ranked, evidence)
		slices.SortStableFunc(ranked, func(a, b core.Evidence) int {
			switch {
			case a.RelevanceScore > b.RelevanceScore:
				return -1
			case a.RelevanceScore < b.RelevanceScore:
				return 1
			}
			return 0
		})
		if len(ranked) > 2 {
			ranked = ranked[:2]
		}

		parts = append(parts, "\nSupporting Policy Clauses:")
		for i, ev := range ranked {
			parts = append(parts, fmt.Sprintf("%d. %s (Relevance: %.2f): %s...",
				i+1, ev.DocumentName, ev.RelevanceScore, excerpt(ev.Text)))
		}
	}

	if len(validation.Warnings) > 0 {
		parts = append(parts, "\nWarnings: "+strings.Join(validation.Warnings, ", "))
	}

	return strings.Join(parts, "\n")
}

// excerpt truncates text to the excerpt length without splitting a rune.
func excerpt(text string) string {
	if len(text) <= excerptLen {
		return text
	}
	runes := []rune(text)
	if len(runes) <= excerptLen {
		return text
	}
	return string(runes[:excerptLen])
}
