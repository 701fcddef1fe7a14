package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/iamshreeyyy/hackxr/core"
)

// fieldPattern binds an entity field to its regular expression family.
// Patterns carry multiple alternations; the first non-empty capture group
// of the first match supplies the value.
type fieldPattern struct {
	field   core.Field
	pattern *regexp.Regexp
}

var fieldPatterns = []fieldPattern{
	{core.FieldAge, regexp.MustCompile(`(?i)\b(\d+)[-\s]?(?:year|yr|y)[-\s]?old|\b(\d+)[yY]\b|\b(\d+)\s*male\b|\b(\d+)\s*female\b`)},
	{core.FieldGender, regexp.MustCompile(`(?i)\b(male|female|man|woman|M|F)\b`)},
	{core.FieldProcedure, regexp.MustCompile(`(?i)\b(surgery|operation|treatment|procedure|knee|hip|heart|brain|cancer|diabetes)\b`)},
	// Capitalized word runs followed by a location cue. Go's regexp has no
	// lookahead, so the cue is consumed and the run recovered from group 1.
	{core.FieldLocation, regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s*(?:city|state|hospital|clinic|,)`)},
	{core.FieldPolicyDuration, regexp.MustCompile(`(?i)\b(\d+)[-\s]?(?:month|week|yr|year)s?[-\s]?(?:old\s+)?(?:policy|insurance)`)},
	{core.FieldAmount, regexp.MustCompile(`(?i)(?:\$|\brs\.?|\binr\b)\s*(\d+(?:,\d{3})*(?:\.\d{2})?)|\b(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:dollars?|rupees?|usd|inr)\b`)},
}

var urgencyWords = []string{"urgent", "emergency", "asap", "immediate"}
var negationWords = []string{"not", "no", "never", "without"}

// Extractor parses free-text claim queries into structured entities.
// Extraction is best effort: a field that does not match is simply absent.
type Extractor struct {
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract pulls entities and query context out of a free-text query.
// Each field takes the first match of its pattern; absent fields are
// omitted from the result.
func (e *Extractor) Extract(query string) (core.Entities, core.QueryContext) {
	entities := make(core.Entities)
	for _, fp := range fieldPatterns {
		if value := firstGroup(fp.pattern, query); value != "" {
			entities[fp.field] = value
		}
	}

	lower := strings.ToLower(query)
	ctx := core.QueryContext{
		QueryLength:      len(strings.Fields(query)),
		ContainsUrgency:  containsWord(lower, urgencyWords),
		ContainsNegation: containsWord(lower, negationWords),
		QuestionType:     questionType(lower),
	}

	e.logger.Debug("extracted entities", "fields", len(entities), "questionType", ctx.QuestionType)
	return entities, ctx
}

// StructuredQuery renders extracted entities as a compact search string,
// used to enrich retrieval alongside the raw query.
func StructuredQuery(entities core.Entities) string {
	labels := []struct {
		field core.Field
		label string
	}{
		{core.FieldAge, "Age"},
		{core.FieldGender, "Gender"},
		{core.FieldProcedure, "Procedure"},
		{core.FieldLocation, "Location"},
		{core.FieldPolicyDuration, "Policy Duration"},
	}

	var parts []string
	for _, l := range labels {
		if value, ok := entities[l.field]; ok {
			parts = append(parts, l.label+": "+value)
		}
	}
	if len(parts) == 0 {
		return "General inquiry"
	}
	return strings.Join(parts, " | ")
}

// firstGroup returns the first non-empty capture group of the first match.
func firstGroup(pattern *regexp.Regexp, text string) string {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	for _, group := range match[1:] {
		if group != "" {
			return strings.TrimSpace(group)
		}
	}
	return ""
}

func containsWord(text string, words []string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}

func questionType(lower string) core.QuestionType {
	switch {
	case containsAny(lower, "eligible", "qualify", "covered", "allowed"):
		return core.QuestionEligibility
	case containsAny(lower, "amount", "cost", "price", "pay", "$"):
		return core.QuestionFinancial
	case containsAny(lower, "when", "how long", "waiting", "period"):
		return core.QuestionTiming
	case containsAny(lower, "where", "location", "hospital", "clinic"):
		return core.QuestionLocation
	default:
		return core.QuestionGeneral
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
