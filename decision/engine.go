package decision

import (
	"log/slog"
	"sync"

	"github.com/iamshreeyyy/hackxr/core"
)

// Engine scores claims and produces explainable decisions.
// Safe for concurrent use.
type Engine struct {
	logger *slog.Logger

	mu         sync.Mutex
	history    []historyRecord
	maxHistory int
}

// historyRecord is one entry of the bounded decision history.
type historyRecord struct {
	decision   core.Decision
	confidence float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// WithMaxHistory bounds the in-memory decision history.
func WithMaxHistory(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxHistory = n
		}
	}
}

// NewEngine creates a decision Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:     slog.Default().With("component", "decision"),
		maxHistory: 1000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Decide evaluates a claim and returns the decision with justification.
// Decide never fails: any internal fault is caught here and converted to a
// safe rejection with zero confidence.
func (e *Engine) Decide(entities core.Entities, evidence []core.Evidence, validation core.ValidationResult, queryType core.QuestionType) (result core.DecisionResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("decision evaluation failed, rejecting claim", "panic", r)
			result = core.DecisionResult{
				Decision:      core.DecisionRejected,
				Confidence:    0.0,
				Justification: "Error in decision processing",
				Risk:          core.RiskAssessment{Overall: core.RiskUnknown},
				QueryType:     queryType,
			}
		}
		e.record(result)
	}()

	result = e.evaluate(entities, evidence, validation, queryType)
	e.logger.Info("decision made",
		"decision", string(result.Decision),
		"confidence", result.Confidence)
	return result
}

func (e *Engine) evaluate(entities core.Entities, evidence []core.Evidence, validation core.ValidationResult, queryType core.QuestionType) core.DecisionResult {
	vFactor := validationFactor(validation)
	eFactor, supportsCoverage := evidenceFactor(evidence, entities)
	cFactor := completenessFactor(entities)
	factors := []core.DecisionFactor{vFactor, eFactor, cFactor}

	risk := assessRisk(entities)

	confidence := (vFactor.Impact + eFactor.Impact + cFactor.Impact) / float64(len(factors))

	var outcome core.Decision
	var modifier float64
	switch {
	case validation.IsValid && supportsCoverage:
		outcome, modifier = core.DecisionApproved, 0.1
	case !validation.IsValid && len(validation.ViolatedRules) > 2:
		outcome, modifier = core.DecisionRejected, 0.1
	case len(validation.Warnings) > 0:
		outcome, modifier = core.DecisionRequiresReview, -0.2
	default:
		outcome, modifier = core.DecisionPending, -0.15
	}

	confidence = max(0.0, min(1.0, confidence+modifier))

	var amount *float64
	if outcome == core.DecisionApproved {
		v := coverageAmount(entities)
		amount = &v
	}

	return core.DecisionResult{
		Decision:      outcome,
		Confidence:    confidence,
		Amount:        amount,
		Justification: buildJustification(outcome, factors, validation, evidence),
		Factors:       factors,
		Risk:          risk,
		QueryType:     queryType,
	}
}

// record appends to the bounded decision history.
func (e *Engine) record(result core.DecisionResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.history = append(e.history, historyRecord{
		decision:   result.Decision,
		confidence: result.Confidence,
	})
	if len(e.history) > e.maxHistory {
		e.history = e.history[len(e.history)-e.maxHistory:]
	}
}

// Statistics summarizes the decisions made so far.
type Statistics struct {
	TotalDecisions     int                   `json:"totalDecisions"`
	Distribution       map[core.Decision]int `json:"distribution"`
	AverageConfidence  float64               `json:"averageConfidence"`
	HighConfidenceOver int                   `json:"highConfidenceDecisions"`
}

// Statistics reports the decision distribution over the retained history.
func (e *Engine) Statistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := Statistics{
		TotalDecisions: len(e.history),
		Distribution:   make(map[core.Decision]int),
	}
	if len(e.history) == 0 {
		return stats
	}

	var sum float64
	for _, rec := range e.history {
		stats.Distribution[rec.decision]++
		sum += rec.confidence
		if rec.confidence > 0.7 {
			stats.HighConfidenceOver++
		}
	}
	stats.AverageConfidence = sum / float64(len(e.history))
	return stats
}
