package decision

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iamshreeyyy/hackxr/core"
)

// Factor names reported in decision results.
const (
	FactorValidation   = "validation_compliance"
	FactorEvidence     = "clause_support"
	FactorCompleteness = "entity_completeness"
)

var positiveTerms = []string{"covered", "eligible", "benefits", "included", "reimburse", "approved"}
var negativeTerms = []string{"excluded", "not covered", "limitation", "restricted", "denied"}

// validationFactor scores how the rule validation outcome affects the
// decision. Critical violations weigh far heavier than ordinary ones.
func validationFactor(validation core.ValidationResult) core.DecisionFactor {
	if validation.IsValid {
		return core.DecisionFactor{
			Name:        FactorValidation,
			Status:      core.FactorPositive,
			Impact:      0.8,
			Description: "All validation rules satisfied",
		}
	}

	critical := false
	for _, name := range validation.ViolatedRules {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "age") || strings.Contains(lower, "excluded") {
			critical = true
			break
		}
	}

	impact, status := 0.5, core.FactorCautionary
	if critical {
		impact, status = 0.2, core.FactorNegative
	}
	return core.DecisionFactor{
		Name:        FactorValidation,
		Status:      status,
		Impact:      impact,
		Description: fmt.Sprintf("%d validation rules violated", len(validation.ViolatedRules)),
	}
}

// evidenceFactor classifies each evidence item's sentiment and scores the
// overall support for coverage. Sentiment only counts when an entity value
// appears verbatim in the clause text.
func evidenceFactor(evidence []core.Evidence, entities core.Entities) (core.DecisionFactor, bool) {
	if len(evidence) == 0 {
		return core.DecisionFactor{
			Name:        FactorEvidence,
			Status:      core.FactorNegative,
			Impact:      0.3,
			Description: "No relevant policy clauses found",
		}, false
	}

	positive, negative := 0, 0
	for _, ev := range evidence {
		switch clauseSentiment(ev.Text, entities) {
		case core.FactorPositive:
			positive++
		case core.FactorNegative:
			negative++
		}
	}

	switch {
	case positive > negative:
		return core.DecisionFactor{
			Name:        FactorEvidence,
			Status:      core.FactorPositive,
			Impact:      min(1.0, 0.7+float64(positive)*0.1),
			Description: fmt.Sprintf("%d clauses support coverage", positive),
		}, true
	case negative > positive:
		return core.DecisionFactor{
			Name:        FactorEvidence,
			Status:      core.FactorNegative,
			Impact:      0.3,
			Description: fmt.Sprintf("%d clauses indicate exclusion", negative),
		}, false
	default:
		return core.DecisionFactor{
			Name:        FactorEvidence,
			Status:      core.FactorNeutral,
			Impact:      0.5,
			Description: "Mixed or unclear clause support",
		}, false
	}
}

// clauseSentiment counts coverage versus exclusion keywords; entities must
// be mentioned for the clause to count either way.
func clauseSentiment(text string, entities core.Entities) core.FactorStatus {
	lower := strings.ToLower(text)

	mentioned := false
	for _, value := range entities {
		if value != "" && strings.Contains(lower, strings.ToLower(value)) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return core.FactorNeutral
	}

	positive, negative := 0, 0
	for _, term := range positiveTerms {
		if strings.Contains(lower, term) {
			positive++
		}
	}
	for _, term := range negativeTerms {
		if strings.Contains(lower, term) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return core.FactorPositive
	case negative > positive:
		return core.FactorNegative
	default:
		return core.FactorNeutral
	}
}

var requiredFields = []core.Field{core.FieldAge, core.FieldProcedure}
var optionalFields = []core.Field{core.FieldGender, core.FieldLocation, core.FieldPolicyDuration}

// completenessFactor scores how fully the entities describe the claim.
// Required fields dominate the weighting.
func completenessFactor(entities core.Entities) core.DecisionFactor {
	presentRequired, presentOptional := 0, 0
	for _, field := range requiredFields {
		if entities[field] != "" {
			presentRequired++
		}
	}
	for _, field := range optionalFields {
		if entities[field] != "" {
			presentOptional++
		}
	}

	score := 0.8*float64(presentRequired)/float64(len(requiredFields)) +
		0.2*float64(presentOptional)/float64(len(optionalFields))

	impact, status := 0.4, core.FactorNegative
	switch {
	case score >= 0.8:
		impact, status = 0.9, core.FactorPositive
	case score >= 0.6:
		impact, status = 0.7, core.FactorCautionary
	}

	return core.DecisionFactor{
		Name:        FactorCompleteness,
		Status:      status,
		Impact:      impact,
		Description: fmt.Sprintf("Entity completeness: %.0f%%", score*100),
	}
}

var highRiskProcedures = []string{"surgery", "cardiac", "brain", "cancer", "transplant"}

// assessRisk grades the claim's risk independently of the decision outcome.
func assessRisk(entities core.Entities) core.RiskAssessment {
	assessment := core.RiskAssessment{Overall: core.RiskLow}

	if age, ok := entityNumber(entities, core.FieldAge); ok {
		if age > 70 {
			assessment.Factors = append(assessment.Factors, core.RiskFactor{
				Type: "age_risk", Level: core.RiskHigh,
				Description: "Advanced age increases claim probability",
			})
			assessment.Overall = core.RiskHigh
		} else if age < 25 {
			assessment.Factors = append(assessment.Factors, core.RiskFactor{
				Type: "age_risk", Level: core.RiskLow,
				Description: "Young age reduces claim probability",
			})
		}
	}

	procedure := strings.ToLower(entities[core.FieldProcedure])
	if procedure != "" {
		for _, term := range highRiskProcedures {
			if strings.Contains(procedure, term) {
				assessment.Factors = append(assessment.Factors, core.RiskFactor{
					Type: "procedure_risk", Level: core.RiskHigh,
					Description: "High-risk medical procedure",
				})
				assessment.Overall = core.RiskHigh
				break
			}
		}
	}

	duration := strings.ToLower(entities[core.FieldPolicyDuration])
	if strings.Contains(duration, "month") {
		if months, ok := entityNumber(entities, core.FieldPolicyDuration); ok && months < 6 {
			assessment.Factors = append(assessment.Factors, core.RiskFactor{
				Type: "policy_duration_risk", Level: core.RiskMedium,
				Description: "New policy with limited duration",
			})
			if assessment.Overall == core.RiskLow {
				assessment.Overall = core.RiskMedium
			}
		}
	}

	for _, factor := range assessment.Factors {
		switch factor.Level {
		case core.RiskHigh:
			assessment.Score += 0.3
		case core.RiskMedium:
			assessment.Score += 0.2
		}
	}
	return assessment
}

// procedureAmounts maps procedure keywords to base coverage amounts.
// Checked in order; the first keyword found in the procedure wins.
var procedureAmounts = []struct {
	keyword string
	amount  float64
}{
	{"knee", 150000},
	{"hip", 200000},
	{"cardiac", 500000},
	{"surgery", 100000},
	{"dental", 25000},
	{"eye", 50000},
}

const defaultAmount = 75000

// coverageAmount computes the payable amount for an approved claim.
// The base amount scales up for older claimants and down for younger ones.
func coverageAmount(entities core.Entities) float64 {
	procedure := strings.ToLower(entities[core.FieldProcedure])

	amount := float64(defaultAmount)
	for _, pa := range procedureAmounts {
		if strings.Contains(procedure, pa.keyword) {
			amount = pa.amount
			break
		}
	}

	if age, ok := entityNumber(entities, core.FieldAge); ok {
		if age > 60 {
			amount *= 1.2
		} else if age < 30 {
			amount *= 0.9
		}
	}
	return amount
}

var firstInt = regexp.MustCompile(`\d+`)

// entityNumber parses the first integer of an entity value.
func entityNumber(entities core.Entities, field core.Field) (int, bool) {
	match := firstInt.FindString(entities[field])
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}
