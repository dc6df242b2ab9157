package extract

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextExtractor decodes plain text. A BOM selects UTF-16 when present;
// otherwise the data is read as UTF-8 with invalid bytes replaced by U+FFFD.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// SupportedExtensions returns the extensions this extractor is registered for.
func (e *TextExtractor) SupportedExtensions() []string {
	return []string{".txt"}
}

// Extract decodes data; it does not fail on malformed input.
func (e *TextExtractor) Extract(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data), nil
	}
	return string(out), nil
}
