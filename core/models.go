package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for index entities.
// Chunk IDs are generated with content-based hashing so identical input
// always yields identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ChunkID derives the identifier for a chunk from its source document and
// position. Re-ingesting the same document reproduces the same IDs, which
// makes duplicate ingestion detectable.
func ChunkID(source string, paragraph, index int) ID {
	return IDFromContent(fmt.Sprintf("%s|p%d|c%d", source, paragraph, index))
}

// ContentType is a coarse label for what a chunk is about, assigned by
// keyword scan during chunking.
type ContentType string

const (
	ContentPolicy      ContentType = "policy_clause"
	ContentEligibility ContentType = "eligibility_rule"
	ContentFinancial   ContentType = "financial_clause"
	ContentExclusion   ContentType = "exclusion_clause"
	ContentStructured  ContentType = "structured_data"
	ContentGeneral     ContentType = "general_content"
)

// ChunkMetadata carries derived descriptive data for a chunk.
type ChunkMetadata struct {
	WordCount  int
	CharCount  int
	KeyPhrases []string
	Type       ContentType
}

// Chunk is a bounded contiguous text segment, the atomic retrieval unit.
// Chunks are immutable once created.
type Chunk struct {
	Id             ID
	SourceDocument string
	Text           string
	Paragraph      int // paragraph ordinal within the source document
	Ordinal        int // chunk ordinal within the paragraph
	Metadata       ChunkMetadata
}

// IndexEntry is a chunk together with its vector representations as stored
// by the hybrid index. Vectors are owned exclusively by the entry.
type IndexEntry struct {
	Chunk  Chunk
	Dense  []float32
	Sparse map[string]float64
}

// Evidence is a retrieved chunk presented as support for a decision.
// Produced only by the hybrid index; read-only downstream.
type Evidence struct {
	DocumentName   string
	ChunkId        ID
	Text           string
	RelevanceScore float64 // in [0,1]
	PageIndex      int     // paragraph ordinal in the source document
}

// Field names the entity slots the extractor can fill.
type Field string

const (
	FieldAge            Field = "age"
	FieldGender         Field = "gender"
	FieldProcedure      Field = "procedure"
	FieldLocation       Field = "location"
	FieldPolicyDuration Field = "policyDuration"
	FieldAmount         Field = "amount"
)

// Fields lists every known entity field.
var Fields = []Field{
	FieldAge, FieldGender, FieldProcedure,
	FieldLocation, FieldPolicyDuration, FieldAmount,
}

// Entities maps extracted fields to their raw string values. Absence of a
// field is valid; unknown fields are rejected by Validate.
type Entities map[Field]string

// QuestionType classifies what a query is asking for.
type QuestionType string

const (
	QuestionEligibility QuestionType = "eligibility"
	QuestionFinancial   QuestionType = "financial"
	QuestionTiming      QuestionType = "timing"
	QuestionLocation    QuestionType = "location"
	QuestionGeneral     QuestionType = "general"
)

// QueryContext is advisory information about the query beyond its entities.
type QueryContext struct {
	QueryLength      int
	ContainsUrgency  bool
	ContainsNegation bool
	QuestionType     QuestionType
}

// RuleStatus is the outcome of evaluating one rule.
type RuleStatus string

const (
	RuleSatisfied RuleStatus = "satisfied"
	RuleViolated  RuleStatus = "violated"
)

// RuleDetail records the per-rule outcome with its explanation.
type RuleDetail struct {
	RuleId      string
	Status      RuleStatus
	Explanation string
}

// ClauseNote is a clause-level validation observation cross-referencing
// evidence text against entity values. Notes never vote on overall validity.
type ClauseNote struct {
	ChunkId     ID
	Status      string
	Explanation string
}

// ValidationResult is the outcome of rule evaluation for one query.
type ValidationResult struct {
	IsValid        bool
	SatisfiedRules []string
	ViolatedRules  []string
	Warnings       []string
	RuleDetails    []RuleDetail
	ClauseNotes    []ClauseNote
}

// Decision is the outcome of the decision engine.
type Decision string

const (
	DecisionApproved       Decision = "approved"
	DecisionRejected       Decision = "rejected"
	DecisionRequiresReview Decision = "requires_review"
	DecisionPending        Decision = "pending"
)

// FactorStatus qualifies a decision factor's contribution.
type FactorStatus string

const (
	FactorPositive   FactorStatus = "positive"
	FactorNegative   FactorStatus = "negative"
	FactorCautionary FactorStatus = "cautionary"
	FactorNeutral    FactorStatus = "neutral"
)

// DecisionFactor is one scored input to the overall decision.
type DecisionFactor struct {
	Name        string
	Status      FactorStatus
	Impact      float64 // confidence impact in [0,1]
	Description string
}

// RiskLevel grades the assessed risk of a claim.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// RiskFactor is a single contributor to the risk assessment.
type RiskFactor struct {
	Type        string
	Level       RiskLevel
	Description string
}

// RiskAssessment is reported alongside a decision, separate from confidence.
type RiskAssessment struct {
	Overall RiskLevel
	Factors []RiskFactor
	Score   float64
}

// DecisionResult is the full outcome of the decision engine for one query.
// Amount is set only when the decision is approved.
type DecisionResult struct {
	Decision      Decision
	Confidence    float64 // in [0,1]
	Amount        *float64
	Justification string
	Factors       []DecisionFactor
	Risk          RiskAssessment
	QueryType     QuestionType
}

// Relation types a traceability link between a decision and evidence.
type Relation string

const (
	RelationSupports    Relation = "supports"
	RelationContradicts Relation = "contradicts"
	RelationValidates   Relation = "validates"
	RelationReferences  Relation = "references"
)

// TraceabilityLink is a typed, scored relationship between a decision and
// one piece of evidence.
type TraceabilityLink struct {
	Id          string
	DecisionId  string
	EvidenceId  ID
	Relation    Relation
	Strength    float64 // in [0,1]
	Explanation string
	Timestamp   time.Time
}

// PipelineStep is one entry of the append-only log the query path builds.
type PipelineStep struct {
	Step      string
	Status    string
	Detail    string
	Timestamp time.Time
}

// DecisionTrace is the full, immutable record of one query's pipeline
// execution and outcome.
type DecisionTrace struct {
	TraceId    string
	DecisionId string
	Query      string
	Entities   Entities
	Decision   Decision
	Confidence float64
	Amount     *float64
	Risk       RiskAssessment
	Links      []TraceabilityLink
	Steps      []PipelineStep
	Timestamp  time.Time
}
