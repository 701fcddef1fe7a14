package chunker

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/iamshreeyyy/hackxr/core"
)

var (
	sentenceEndings = regexp.MustCompile(`[.!?]+`)
	paragraphBreaks = regexp.MustCompile(`\n\s*\n`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
)

// minSentenceLen filters out fragments left over by terminal-punctuation
// splitting (abbreviation tails, list markers).
const minSentenceLen = 10

// Chunker splits document text into chunks according to the configured
// size limits.
type Chunker struct {
	cfg    core.Config
	logger *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates a Chunker for the given configuration.
func New(cfg core.Config, opts ...Option) *Chunker {
	c := &Chunker{
		cfg:    cfg,
		logger: slog.Default().With("component", "chunker"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pending is a chunk under construction, before IDs and metadata are assigned.
type pending struct {
	text      string
	paragraph int
}

// Chunk splits text from the named source document into an ordered sequence
// of chunks. The returned slice is empty when the input contains no usable
// text; that is not an error.
func (c *Chunker) Chunk(text, sourceId string) ([]core.Chunk, error) {
	if strings.TrimSpace(sourceId) == "" {
		return nil, core.ErrEmptySource
	}

	paragraphs := c.splitParagraphs(text)

	var built []pending
	for i, paragraph := range paragraphs {
		built = append(built, c.chunkParagraph(paragraph, i)...)
	}

	built = c.mergeSmall(built)
	built = c.splitOversize(built)

	chunks := make([]core.Chunk, 0, len(built))
	for ordinal, p := range built {
		chunks = append(chunks, core.Chunk{
			Id:             core.ChunkID(sourceId, p.paragraph, ordinal),
			SourceDocument: sourceId,
			Text:           p.text,
			Paragraph:      p.paragraph,
			Ordinal:        ordinal,
			Metadata: core.ChunkMetadata{
				WordCount:  len(strings.Fields(p.text)),
				CharCount:  len(p.text),
				KeyPhrases: keyPhrases(p.text),
				Type:       contentType(p.text),
			},
		})
	}

	c.logger.Info("created chunks", "source", sourceId, "chunks", len(chunks))
	return chunks, nil
}

// splitParagraphs separates text on blank-line boundaries and normalizes
// whitespace within each paragraph.
func (c *Chunker) splitParagraphs(text string) []string {
	var raw []string
	if c.cfg.PreserveParagraphs {
		raw = paragraphBreaks.Split(text, -1)
	} else {
		raw = []string{text}
	}

	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(whitespaceRuns.ReplaceAllString(p, " "))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// chunkParagraph greedily accumulates sentences into chunks bounded by
// MaxChunkSize, seeding each new chunk with the trailing OverlapSize words
// of its predecessor.
func (c *Chunker) chunkParagraph(paragraph string, paragraphIndex int) []pending {
	if len(paragraph) <= c.cfg.MaxChunkSize {
		return []pending{{text: paragraph, paragraph: paragraphIndex}}
	}

	sentences := c.splitSentences(paragraph)

	var chunks []pending
	current := ""
	for _, sentence := range sentences {
		potential := sentence
		if current != "" {
			potential = current + " " + sentence
		}

		if len(potential) > c.cfg.MaxChunkSize && current != "" {
			if len(current) < c.cfg.MinChunkSize {
				// Too small to stand alone: carry forward instead of closing.
				current = potential
				continue
			}
			chunks = append(chunks, pending{text: current, paragraph: paragraphIndex})
			current = c.overlapSeed(current, sentence)
			continue
		}
		current = potential
	}

	if current != "" {
		chunks = append(chunks, pending{text: current, paragraph: paragraphIndex})
	}
	return chunks
}

// splitSentences breaks a paragraph on terminal punctuation and drops
// very short fragments.
func (c *Chunker) splitSentences(text string) []string {
	if !c.cfg.PreserveSentences {
		// Fixed-width word grouping when sentence structure is disabled.
		words := strings.Fields(text)
		var groups []string
		for i := 0; i < len(words); i += 20 {
			end := min(i+20, len(words))
			groups = append(groups, strings.Join(words[i:end], " "))
		}
		return groups
	}

	parts := sentenceEndings.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > minSentenceLen {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// overlapSeed returns the trailing OverlapSize words of the previous chunk
// joined with the next sentence.
func (c *Chunker) overlapSeed(previous, sentence string) string {
	if c.cfg.OverlapSize == 0 {
		return sentence
	}
	words := strings.Fields(previous)
	if len(words) > c.cfg.OverlapSize {
		words = words[len(words)-c.cfg.OverlapSize:]
	}
	return strings.Join(words, " ") + " " + sentence
}

// mergeSmall folds chunks below MinChunkSize into their predecessor when
// the merged chunk stays within MaxChunkSize.
func (c *Chunker) mergeSmall(chunks []pending) []pending {
	merged := make([]pending, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.text) < c.cfg.MinChunkSize && len(merged) > 0 {
			last := &merged[len(merged)-1]
			if len(last.text)+len(chunk.text)+1 <= c.cfg.MaxChunkSize {
				last.text = last.text + " " + chunk.text
				continue
			}
		}
		merged = append(merged, chunk)
	}
	return merged
}

// splitOversize hard-splits any chunk that still exceeds MaxChunkSize at
// word boundaries. Carry-forward can overflow the limit when a paragraph
// holds a run of sentences each too short to close a chunk.
func (c *Chunker) splitOversize(chunks []pending) []pending {
	out := make([]pending, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.text) <= c.cfg.MaxChunkSize {
			out = append(out, chunk)
			continue
		}

		words := strings.Fields(chunk.text)
		current := ""
		for _, word := range words {
			potential := word
			if current != "" {
				potential = current + " " + word
			}
			if len(potential) > c.cfg.MaxChunkSize && current != "" {
				out = append(out, pending{text: current, paragraph: chunk.paragraph})
				current = word
				continue
			}
			current = potential
		}
		if current != "" {
			out = append(out, pending{text: current, paragraph: chunk.paragraph})
		}
	}
	return out
}
