package parser

import (
	"os"
	"path/filepath"
	"strings"
)

type textParser struct{}

func (textParser) Parse(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	text := string(data)
	return Document{
		Name:   filepath.Base(path),
		Format: "txt",
		Text:   text,
		Units:  len(strings.Split(text, "\n")),
	}, nil
}
