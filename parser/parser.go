package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is the result of parsing one file.
type Document struct {
	// Name is the base file name, used as the source document id downstream.
	Name string
	// Format is the normalized format label: "pdf", "docx" or "txt".
	Format string
	// Text is the extracted plain text.
	Text string
	// Units counts the format's structural units: pages for PDF,
	// paragraphs for Word, lines for plain text.
	Units int
}

// Parser extracts text from one document format.
type Parser interface {
	Parse(path string) (Document, error)
}

// Legacy .doc files are OLE compound documents, not ZIP archives, so the
// docx parser cannot read them and no mapping exists for them.
var parsers = map[string]Parser{
	".pdf":  pdfParser{},
	".docx": docxParser{},
	".txt":  textParser{},
}

// ForFile returns the parser for a file's extension.
func ForFile(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	return p, nil
}

// Parse extracts text from a file, dispatching on its extension.
func Parse(path string) (Document, error) {
	p, err := ForFile(path)
	if err != nil {
		return Document{}, err
	}
	doc, err := p.Parse(path)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, filepath.Base(path))
	}
	return doc, nil
}
