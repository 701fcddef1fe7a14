package rules

// Default rule ids. The critical set below references these.
const (
	RuleAgeLimit           = "age_limit"
	RuleWaitingPeriod      = "waiting_period"
	RuleCoveredProcedures  = "covered_procedures"
	RuleExcludedProcedures = "excluded_procedures"
	RuleGeographicCoverage = "geographic_coverage"
	RuleClaimAmountLimit   = "claim_amount_limit"
	RulePreAuthorization   = "pre_authorization"
)

// criticalRules invalidate the whole claim when violated. Everything else
// only contributes warnings and violation names.
var criticalRules = map[string]struct{}{
	RuleExcludedProcedures: {},
	RuleAgeLimit:           {},
}

// DefaultRules returns the standard policy rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			Id: RuleAgeLimit, Name: "Age Eligibility", Priority: 1,
			Conditions: []Condition{
				{Kind: CondMinAge, Number: 18},
				{Kind: CondMaxAge, Number: 80},
			},
		},
		{
			Id: RuleExcludedProcedures, Name: "Excluded Procedures", Priority: 1,
			Conditions: []Condition{
				{Kind: CondExcludedProcedures, Terms: []string{
					"cosmetic", "plastic surgery", "experimental", "elective",
				}},
			},
		},
		{
			Id: RuleWaitingPeriod, Name: "Waiting Period Check", Priority: 2,
			Conditions: []Condition{
				{Kind: CondWaitingPeriodDays, Number: 90},
			},
		},
		{
			Id: RuleGeographicCoverage, Name: "Geographic Coverage", Priority: 2,
			Conditions: []Condition{
				{Kind: CondCoveredLocations, Terms: []string{
					"pune", "mumbai", "delhi", "bangalore", "chennai",
					"hyderabad", "kolkata", "ahmedabad", "india",
				}},
			},
		},
		{
			Id: RuleClaimAmountLimit, Name: "Maximum Claim Amount", Priority: 2,
			Conditions: []Condition{
				{Kind: CondMaxClaimAmount, Number: 500000},
			},
		},
		{
			Id: RuleCoveredProcedures, Name: "Procedure Coverage", Priority: 3,
			Conditions: []Condition{
				{Kind: CondCoveredProcedures, Terms: []string{
					"knee surgery", "hip surgery", "cardiac surgery", "dental",
					"eye surgery", "general surgery", "orthopedic", "treatment",
				}},
			},
		},
		{
			Id: RulePreAuthorization, Name: "Pre-authorization Required", Priority: 3,
			Conditions: []Condition{
				{Kind: CondRequiresPreAuth, Flag: true},
			},
		},
	}
}
