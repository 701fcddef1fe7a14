package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Word documents are ZIP archives; the text lives in word/document.xml as
// paragraphs of runs. Only the text nodes are extracted, one line per
// paragraph, which is exactly the structure the chunker wants.
type docxParser struct{}

type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Text []struct {
			Content string `xml:",chardata"`
		} `xml:"t"`
	} `xml:"r"`
}

func (docxParser) Parse(path string) (Document, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return Document{}, fmt.Errorf("opening word archive: %w", err)
	}
	defer archive.Close()

	var doc docxDocument
	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return Document{}, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return Document{}, err
		}
		if err := xml.Unmarshal(content, &doc); err != nil {
			return Document{}, fmt.Errorf("parsing word document: %w", err)
		}
		break
	}

	var sb strings.Builder
	paragraphs := 0
	for _, para := range doc.Body.Paragraphs {
		var line strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				line.WriteString(text.Content)
			}
		}
		if strings.TrimSpace(line.String()) == "" {
			continue
		}
		if paragraphs > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(line.String())
		paragraphs++
	}

	return Document{
		Name:   filepath.Base(path),
		Format: "docx",
		Text:   sb.String(),
		Units:  paragraphs,
	}, nil
}
