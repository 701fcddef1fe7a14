// Package parser extracts plain text from policy documents so they can be
// chunked and indexed. Dispatch is by file extension: PDF, Word and plain
// text are supported. Parsers return the extracted text together with light
// structural metadata; interpreting the text is the chunker's job.
package parser
