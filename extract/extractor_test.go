package extract

import (
	"testing"

	"github.com/iamshreeyyy/hackxr/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEntities(t *testing.T) {
	e := New()

	entities, _ := e.Extract("46-year-old male, knee surgery in Pune, 3-month-old insurance policy")

	assert.Equal(t, "46", entities[core.FieldAge])
	assert.Equal(t, "male", entities[core.FieldGender])
	assert.Equal(t, "knee", entities[core.FieldProcedure])
	assert.Equal(t, "Pune", entities[core.FieldLocation])
	assert.Equal(t, "3", entities[core.FieldPolicyDuration])
}

func TestExtractCompactAge(t *testing.T) {
	e := New()

	entities, _ := e.Extract("46y male needs hip replacement")
	assert.Equal(t, "46", entities[core.FieldAge])
	assert.Equal(t, "male", entities[core.FieldGender])
	assert.Equal(t, "hip", entities[core.FieldProcedure])
}

func TestExtractAmount(t *testing.T) {
	e := New()

	entities, _ := e.Extract("claim of $150,000 for cardiac surgery")
	assert.Equal(t, "150,000", entities[core.FieldAmount])

	entities, _ = e.Extract("will the policy pay 25000 rupees for dental treatment")
	assert.Equal(t, "25000", entities[core.FieldAmount])
}

func TestExtractNoMatch(t *testing.T) {
	e := New()

	entities, ctx := e.Extract("what does the document say")
	assert.Empty(t, entities)
	assert.Equal(t, core.QuestionGeneral, ctx.QuestionType)
}

func TestExtractFirstMatchWins(t *testing.T) {
	e := New()

	entities, _ := e.Extract("knee surgery or hip operation")
	assert.Equal(t, "knee", entities[core.FieldProcedure])
}

func TestQueryContext(t *testing.T) {
	e := New()

	tests := []struct {
		name     string
		query    string
		urgency  bool
		negation bool
		qtype    core.QuestionType
	}{
		{"eligibility", "am I eligible for knee surgery", false, false, core.QuestionEligibility},
		{"financial", "what amount will be paid", false, false, core.QuestionFinancial},
		{"timing", "how long is the waiting period", false, false, core.QuestionTiming},
		{"location", "which hospital is covered", false, false, core.QuestionEligibility},
		{"urgent", "urgent: emergency surgery needed", true, false, core.QuestionGeneral},
		{"negation", "surgery not covered without approval", false, true, core.QuestionEligibility},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := e.Extract(tt.query)
			assert.Equal(t, tt.urgency, ctx.ContainsUrgency)
			assert.Equal(t, tt.negation, ctx.ContainsNegation)
			assert.Equal(t, tt.qtype, ctx.QuestionType)
		})
	}
}

func TestQueryLength(t *testing.T) {
	e := New()

	_, ctx := e.Extract("one two three four")
	assert.Equal(t, 4, ctx.QueryLength)
}

func TestStructuredQuery(t *testing.T) {
	entities := core.Entities{
		core.FieldAge:       "46",
		core.FieldProcedure: "knee",
	}
	assert.Equal(t, "Age: 46 | Procedure: knee", StructuredQuery(entities))

	require.Equal(t, "General inquiry", StructuredQuery(core.Entities{}))
}
