package parser

import (
	"io"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

type pdfParser struct{}

func (pdfParser) Parse(path string) (Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return Document{}, err
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Name:   filepath.Base(path),
		Format: "pdf",
		Text:   string(text),
		Units:  reader.NumPage(),
	}, nil
}
