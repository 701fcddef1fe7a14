package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/iamshreeyyy/hackxr/core"
)

// Clause note statuses produced by evidence cross-referencing.
const (
	ClauseSupportsCoverage      = "supports_coverage"
	ClauseNeutral               = "neutral"
	ClauseExclusionRisk         = "exclusion_risk"
	ClauseWaitingPeriodRelevant = "waiting_period_relevant"
)

var coverageTerms = []string{
	"covered", "eligible", "included", "benefits", "reimbursement",
	"payment", "approved", "qualified",
}

var exclusionTerms = []string{
	"excluded", "not covered", "limitation", "restriction",
	"prohibited", "denied", "rejected",
}

// Validator applies policy rules to claim entities and cross-references
// evidence clauses. Safe for concurrent use; custom rules may be added
// while queries run.
type Validator struct {
	mu     sync.RWMutex
	rules  []Rule
	logger *slog.Logger

	// unknownConditions counts evaluations of condition kinds outside the
	// closed set. Nonzero values usually mean a misconfigured custom rule.
	unknownConditions atomic.Int64
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger == nil {
			logger = slog.Default()
		}
		v.logger = logger
	}
}

// WithRules replaces the default rule set.
func WithRules(rules []Rule) Option {
	return func(v *Validator) {
		v.rules = rules
	}
}

// NewValidator creates a Validator loaded with the default policy rules.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		rules:  DefaultRules(),
		logger: slog.Default().With("component", "validator"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AddRule registers a custom rule after construction-time validation.
func (v *Validator) AddRule(rule Rule) error {
	checked, err := New(rule.Id, rule.Name, rule.Priority, rule.Conditions...)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, existing := range v.rules {
		if existing.Id == checked.Id {
			return fmt.Errorf("%w: %s", ErrDuplicateRule, checked.Id)
		}
	}
	v.rules = append(v.rules, checked)
	v.logger.Info("added custom rule", "rule", checked.Id)
	return nil
}

// Validate evaluates all rules in ascending priority order against the
// entities, then scans evidence for clause-level observations. Clause
// notes never change IsValid; only critical rule violations do.
func (v *Validator) Validate(entities core.Entities, evidence []core.Evidence) core.ValidationResult {
	v.mu.RLock()
	sorted := make([]Rule, len(v.rules))
	copy(sorted, v.rules)
	v.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	result := core.ValidationResult{IsValid: true}
	unknown := func(kind ConditionKind) {
		v.unknownConditions.Add(1)
		v.logger.Warn("unknown condition kind treated as satisfied", "kind", string(kind))
	}

	criticalViolations := 0
	for _, rule := range sorted {
		satisfied, explanation := rule.evaluate(entities, unknown)

		if satisfied {
			result.SatisfiedRules = append(result.SatisfiedRules, rule.Name)
			result.RuleDetails = append(result.RuleDetails, core.RuleDetail{
				RuleId: rule.Id, Status: core.RuleSatisfied, Explanation: explanation,
			})
			continue
		}

		result.ViolatedRules = append(result.ViolatedRules, rule.Name)
		result.RuleDetails = append(result.RuleDetails, core.RuleDetail{
			RuleId: rule.Id, Status: core.RuleViolated, Explanation: explanation,
		})

		switch rule.Id {
		case RuleWaitingPeriod:
			result.Warnings = append(result.Warnings, "Policy may not have met minimum waiting period")
		case RuleExcludedProcedures:
			result.Warnings = append(result.Warnings, "Procedure may be excluded from coverage")
		}

		if _, critical := criticalRules[rule.Id]; critical {
			criticalViolations++
		}
	}

	result.IsValid = criticalViolations == 0
	result.ClauseNotes = clauseNotes(entities, evidence)

	v.logger.Debug("validation complete",
		"valid", result.IsValid,
		"violated", len(result.ViolatedRules),
		"warnings", len(result.Warnings))
	return result
}

// UnknownConditionCount reports how many unknown condition kinds have been
// evaluated since construction.
func (v *Validator) UnknownConditionCount() int64 {
	return v.unknownConditions.Load()
}

// RuleCount returns the number of loaded rules.
func (v *Validator) RuleCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.rules)
}

// Statistics summarizes the configured rule set.
type Statistics struct {
	Rules             int
	ConditionKinds    map[ConditionKind]int
	UnknownConditions int64
}

// Statistics reports the rule count, a histogram of condition kinds and the
// unknown-condition counter.
func (v *Validator) Statistics() Statistics {
	v.mu.RLock()
	defer v.mu.RUnlock()

	kinds := make(map[ConditionKind]int)
	for _, rule := range v.rules {
		for _, cond := range rule.Conditions {
			kinds[cond.Kind]++
		}
	}
	return Statistics{
		Rules:             len(v.rules),
		ConditionKinds:    kinds,
		UnknownConditions: v.unknownConditions.Load(),
	}
}

// clauseNotes cross-references evidence text against entity values.
// Coverage language mentioning an entity supports the claim; exclusion
// language mentioning an entity flags a risk; waiting-period mentions are
// noted for context.
func clauseNotes(entities core.Entities, evidence []core.Evidence) []core.ClauseNote {
	var notes []core.ClauseNote
	for _, ev := range evidence {
		text := strings.ToLower(ev.Text)

		switch {
		case containsAnyTerm(text, coverageTerms):
			if entityMentioned(entities, text) {
				notes = append(notes, core.ClauseNote{
					ChunkId: ev.ChunkId, Status: ClauseSupportsCoverage,
					Explanation: "Clause supports coverage for this case",
				})
			} else {
				notes = append(notes, core.ClauseNote{
					ChunkId: ev.ChunkId, Status: ClauseNeutral,
					Explanation: "Clause is relevant but not specifically supportive",
				})
			}
		case containsAnyTerm(text, exclusionTerms):
			if entityMentioned(entities, text) {
				notes = append(notes, core.ClauseNote{
					ChunkId: ev.ChunkId, Status: ClauseExclusionRisk,
					Explanation: "Clause may exclude coverage for this case",
				})
			}
		case strings.Contains(text, "waiting") || strings.Contains(text, "period"):
			notes = append(notes, core.ClauseNote{
				ChunkId: ev.ChunkId, Status: ClauseWaitingPeriodRelevant,
				Explanation: "Clause mentions waiting period requirements",
			})
		}
	}
	return notes
}

func containsAnyTerm(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func entityMentioned(entities core.Entities, text string) bool {
	for _, value := range entities {
		if value != "" && strings.Contains(text, strings.ToLower(value)) {
			return true
		}
	}
	return false
}
