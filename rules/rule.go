package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iamshreeyyy/hackxr/core"
)

// ConditionKind names one kind of rule condition. The known kinds form a
// closed set; anything else is forward-compatible but flagged at evaluation.
type ConditionKind string

const (
	CondMinAge             ConditionKind = "min_age"
	CondMaxAge             ConditionKind = "max_age"
	CondGenderIn           ConditionKind = "gender"
	CondWaitingPeriodDays  ConditionKind = "waiting_period_days"
	CondCoveredProcedures  ConditionKind = "covered_procedures"
	CondExcludedProcedures ConditionKind = "excluded_procedures"
	CondCoveredLocations   ConditionKind = "covered_locations"
	CondMaxClaimAmount     ConditionKind = "max_claim_amount"
	CondRequiresPreAuth    ConditionKind = "requires_pre_authorization"
)

// Condition is one typed check inside a rule. Exactly one payload field is
// meaningful per kind: Number for numeric thresholds, Terms for membership
// and substring checks, Flag for boolean switches.
type Condition struct {
	Kind   ConditionKind
	Number float64
	Terms  []string
	Flag   bool
}

// Rule is a named set of conditions evaluated against claim entities.
// All conditions must hold for the rule to be satisfied.
type Rule struct {
	Id         string
	Name       string
	Priority   int
	Conditions []Condition
}

// highRiskProcedures require pre-authorization before approval.
var highRiskProcedures = []string{"surgery", "operation", "transplant", "cardiac"}

// New builds a rule, validating each condition payload against its kind.
// Unknown kinds are accepted as-is; they surface at evaluation instead.
func New(id, name string, priority int, conditions ...Condition) (Rule, error) {
	if strings.TrimSpace(id) == "" {
		return Rule{}, fmt.Errorf("%w: empty rule id", ErrInvalidRule)
	}
	if len(conditions) == 0 {
		return Rule{}, fmt.Errorf("%w: rule %q has no conditions", ErrInvalidRule, id)
	}

	for _, cond := range conditions {
		if err := validateCondition(cond); err != nil {
			return Rule{}, fmt.Errorf("rule %q: %w", id, err)
		}
	}

	return Rule{Id: id, Name: name, Priority: priority, Conditions: conditions}, nil
}

func validateCondition(cond Condition) error {
	switch cond.Kind {
	case CondMinAge, CondMaxAge, CondWaitingPeriodDays, CondMaxClaimAmount:
		if cond.Number < 0 {
			return fmt.Errorf("%w: %s threshold is negative", ErrInvalidRule, cond.Kind)
		}
	case CondGenderIn, CondCoveredProcedures, CondExcludedProcedures, CondCoveredLocations:
		if len(cond.Terms) == 0 {
			return fmt.Errorf("%w: %s has no terms", ErrInvalidRule, cond.Kind)
		}
	case CondRequiresPreAuth:
		// Flag carries the value; nothing to validate.
	default:
		// Unknown kinds pass construction and are counted at evaluation.
	}
	return nil
}

// evaluate checks every condition against the entities. The first failing
// condition determines the explanation. Unknown kinds are reported through
// the unknown callback and treated as satisfied.
func (r Rule) evaluate(entities core.Entities, unknown func(kind ConditionKind)) (bool, string) {
	for _, cond := range r.Conditions {
		if !checkCondition(cond, entities, unknown) {
			return false, fmt.Sprintf("Rule %s: %s condition not met", r.Name, cond.Kind)
		}
	}
	return true, fmt.Sprintf("Rule %s: all conditions satisfied", r.Name)
}

func checkCondition(cond Condition, entities core.Entities, unknown func(kind ConditionKind)) bool {
	switch cond.Kind {
	case CondMinAge:
		return numericValue(entities[core.FieldAge]) >= cond.Number
	case CondMaxAge:
		return numericValue(entities[core.FieldAge]) <= cond.Number
	case CondGenderIn:
		gender := strings.ToLower(entities[core.FieldGender])
		for _, term := range cond.Terms {
			if gender == strings.ToLower(term) {
				return true
			}
		}
		return false
	case CondWaitingPeriodDays:
		return float64(DurationDays(entities[core.FieldPolicyDuration])) >= cond.Number
	case CondCoveredProcedures:
		return anyTermIn(cond.Terms, entities[core.FieldProcedure])
	case CondExcludedProcedures:
		return !anyTermIn(cond.Terms, entities[core.FieldProcedure])
	case CondCoveredLocations:
		return anyTermIn(cond.Terms, entities[core.FieldLocation])
	case CondMaxClaimAmount:
		return numericValue(entities[core.FieldAmount]) <= cond.Number
	case CondRequiresPreAuth:
		if !cond.Flag {
			return true
		}
		return !anyTermIn(highRiskProcedures, entities[core.FieldProcedure])
	default:
		unknown(cond.Kind)
		return true
	}
}

// anyTermIn reports whether any term appears as a substring of value,
// case-insensitively.
func anyTermIn(terms []string, value string) bool {
	value = strings.ToLower(value)
	for _, term := range terms {
		if strings.Contains(value, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// numericValue extracts a number from free text, stripping everything but
// digits and the decimal point. Absent or unparseable values score zero.
func numericValue(value string) float64 {
	cleaned := nonNumeric.ReplaceAllString(value, "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

var digits = regexp.MustCompile(`\d+`)

// DurationDays parses a free-text policy duration into days.
// Units convert as year=365, month=30, week=7; a bare number reads as days.
func DurationDays(value string) int {
	lower := strings.ToLower(value)
	match := digits.FindString(lower)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}

	switch {
	case strings.Contains(lower, "year") || strings.Contains(lower, "yr"):
		return n * 365
	case strings.Contains(lower, "month"):
		return n * 30
	case strings.Contains(lower, "week"):
		return n * 7
	default:
		return n
	}
}
