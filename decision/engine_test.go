package decision

import (
	"strings"
	"testing"

	"github.com/iamshreeyyy/hackxr/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValidation() core.ValidationResult {
	return core.ValidationResult{
		IsValid:        true,
		SatisfiedRules: []string{"Age Eligibility", "Procedure Coverage", "Geographic Coverage"},
	}
}

func supportiveEvidence() []core.Evidence {
	return []core.Evidence{
		{DocumentName: "policy.txt", ChunkId: 1, RelevanceScore: 0.9,
			Text: "Knee surgery is covered for eligible members after the waiting period."},
		{DocumentName: "policy.txt", ChunkId: 2, RelevanceScore: 0.8,
			Text: "Benefits for knee surgery are included under the orthopedic schedule."},
	}
}

func claimEntities() core.Entities {
	return core.Entities{
		core.FieldAge:            "46",
		core.FieldProcedure:      "knee surgery",
		core.FieldLocation:       "Pune",
		core.FieldPolicyDuration: "8 months",
	}
}

func TestDecideApproved(t *testing.T) {
	e := NewEngine()

	result := e.Decide(claimEntities(), supportiveEvidence(), validValidation(), core.QuestionGeneral)
	assert.Equal(t, core.DecisionApproved, result.Decision)
	require.NotNil(t, result.Amount)
	assert.Equal(t, 150000.0, *result.Amount)
	assert.Contains(t, result.Justification, "APPROVED")
}

func TestDecideRejectedManyViolations(t *testing.T) {
	e := NewEngine()

	validation := core.ValidationResult{
		IsValid:       false,
		ViolatedRules: []string{"Excluded Procedures", "Waiting Period Check", "Geographic Coverage"},
		Warnings:      []string{"Procedure may be excluded from coverage"},
	}

	result := e.Decide(core.Entities{core.FieldProcedure: "cosmetic surgery"}, nil, validation, core.QuestionGeneral)
	assert.Equal(t, core.DecisionRejected, result.Decision)
	assert.Nil(t, result.Amount)
	assert.Contains(t, result.Justification, "REJECTED")
}

func TestDecideRequiresReviewOnWarnings(t *testing.T) {
	e := NewEngine()

	validation := core.ValidationResult{
		IsValid:       false,
		ViolatedRules: []string{"Age Eligibility"},
		Warnings:      []string{"Policy may not have met minimum waiting period"},
	}

	result := e.Decide(claimEntities(), supportiveEvidence(), validation, core.QuestionGeneral)
	assert.Equal(t, core.DecisionRequiresReview, result.Decision)
	assert.Nil(t, result.Amount)
}

func TestDecidePendingNoEvidence(t *testing.T) {
	e := NewEngine()

	// Valid claim but zero evidence: support factor is 0.3, never approved.
	result := e.Decide(claimEntities(), nil, validValidation(), core.QuestionGeneral)
	assert.Equal(t, core.DecisionPending, result.Decision)
	assert.Nil(t, result.Amount)

	for _, factor := range result.Factors {
		if factor.Name == FactorEvidence {
			assert.Equal(t, 0.3, factor.Impact)
		}
	}
}

func TestConfidenceClamped(t *testing.T) {
	e := NewEngine()

	result := e.Decide(claimEntities(), supportiveEvidence(), validValidation(), core.QuestionGeneral)
	assert.GreaterOrEqual(t, result.Confidence, 0.0)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestAmountOnlyWhenApproved(t *testing.T) {
	e := NewEngine()

	approved := e.Decide(claimEntities(), supportiveEvidence(), validValidation(), core.QuestionGeneral)
	require.Equal(t, core.DecisionApproved, approved.Decision)
	assert.NotNil(t, approved.Amount)

	pending := e.Decide(claimEntities(), nil, validValidation(), core.QuestionGeneral)
	require.NotEqual(t, core.DecisionApproved, pending.Decision)
	assert.Nil(t, pending.Amount)
}

func TestCoverageAmountScaling(t *testing.T) {
	tests := []struct {
		name     string
		entities core.Entities
		want     float64
	}{
		{"knee", core.Entities{core.FieldProcedure: "knee surgery", core.FieldAge: "46"}, 150000},
		{"hip elderly", core.Entities{core.FieldProcedure: "hip replacement", core.FieldAge: "65"}, 240000},
		{"cardiac", core.Entities{core.FieldProcedure: "cardiac surgery", core.FieldAge: "50"}, 500000},
		{"dental young", core.Entities{core.FieldProcedure: "dental", core.FieldAge: "25"}, 22500},
		{"unknown procedure", core.Entities{core.FieldProcedure: "physiotherapy", core.FieldAge: "40"}, 75000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, coverageAmount(tt.entities), 1e-9)
		})
	}
}

func TestEvidenceFactorMajorityNegative(t *testing.T) {
	entities := core.Entities{core.FieldProcedure: "cosmetic surgery"}
	evidence := []core.Evidence{
		{Text: "Cosmetic surgery is excluded from all plans."},
		{Text: "Cosmetic surgery claims are denied under this policy."},
	}

	factor, supports := evidenceFactor(evidence, entities)
	assert.False(t, supports)
	assert.Equal(t, 0.3, factor.Impact)
	assert.Equal(t, core.FactorNegative, factor.Status)
}

func TestEvidenceFactorImpactGrowsWithSupport(t *testing.T) {
	entities := core.Entities{core.FieldProcedure: "knee"}
	evidence := []core.Evidence{
		{Text: "Knee procedures are covered."},
		{Text: "Knee treatment benefits are included."},
		{Text: "Knee rehabilitation is eligible for reimbursement."},
	}

	factor, supports := evidenceFactor(evidence, entities)
	assert.True(t, supports)
	assert.InDelta(t, 1.0, factor.Impact, 1e-9)
}

func TestCompletenessFactor(t *testing.T) {
	full := completenessFactor(core.Entities{
		core.FieldAge:            "46",
		core.FieldProcedure:      "knee surgery",
		core.FieldGender:         "male",
		core.FieldLocation:       "Pune",
		core.FieldPolicyDuration: "8 months",
	})
	assert.Equal(t, 0.9, full.Impact)
	assert.Equal(t, core.FactorPositive, full.Status)

	empty := completenessFactor(core.Entities{})
	assert.Equal(t, 0.4, empty.Impact)
	assert.Equal(t, core.FactorNegative, empty.Status)
}

func TestRiskAssessment(t *testing.T) {
	risk := assessRisk(core.Entities{
		core.FieldAge:            "75",
		core.FieldProcedure:      "cardiac surgery",
		core.FieldPolicyDuration: "3 months",
	})
	assert.Equal(t, core.RiskHigh, risk.Overall)
	assert.InDelta(t, 0.8, risk.Score, 1e-9) // two high factors plus one medium
	assert.Len(t, risk.Factors, 3)

	low := assessRisk(core.Entities{core.FieldAge: "40"})
	assert.Equal(t, core.RiskLow, low.Overall)
	assert.Zero(t, low.Score)
}

func TestStatisticsBoundedHistory(t *testing.T) {
	e := NewEngine(WithMaxHistory(5))

	for i := 0; i < 8; i++ {
		e.Decide(claimEntities(), nil, validValidation(), core.QuestionGeneral)
	}

	stats := e.Statistics()
	assert.Equal(t, 5, stats.TotalDecisions)
	assert.Equal(t, 5, stats.Distribution[core.DecisionPending])
}

func TestJustificationSections(t *testing.T) {
	e := NewEngine()

	validation := validValidation()
	validation.Warnings = []string{"Policy may not have met minimum waiting period"}
	result := e.Decide(claimEntities(), supportiveEvidence(), validation, core.QuestionGeneral)

	assert.Contains(t, result.Justification, "Key Decision Factors:")
	assert.Contains(t, result.Justification, "Satisfied Requirements:")
	assert.Contains(t, result.Justification, "Supporting Policy Clauses:")
	assert.Contains(t, result.Justification, "Warnings:")
	assert.True(t, strings.Contains(result.Justification, "✓") ||
		strings.Contains(result.Justification, "•"))
}
