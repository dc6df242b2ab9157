// Package extract turns uploaded requirement documents into plain text.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/tcgen/internal/domain"
)

// Extractor converts one document format to text. Paragraphs or pages are
// joined with blank lines.
type Extractor interface {
	Extract(data []byte) (string, error)
	SupportedExtensions() []string
}

// DefaultRegistry maps file extensions to extractors, with a fallback for
// everything unregistered.
type DefaultRegistry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
	fallback   Extractor
	log        *logrus.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logrus.Logger) *DefaultRegistry {
	return &DefaultRegistry{
		extractors: make(map[string]Extractor),
		log:        log,
	}
}

// NewDefaultRegistry registers PDF, DOCX and Markdown extractors and falls
// back to plain text.
func NewDefaultRegistry(log *logrus.Logger) *DefaultRegistry {
	r := NewRegistry(log)
	r.Register(NewPDFExtractor())
	r.Register(NewDOCXExtractor())
	r.Register(NewMarkdownExtractor())
	r.SetFallback(NewTextExtractor())
	return r
}

// Register adds an extractor for each of its supported extensions.
func (r *DefaultRegistry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.SupportedExtensions() {
		r.extractors[normalizeExt(ext)] = e
	}
}

// SetFallback sets the extractor used for unregistered extensions.
func (r *DefaultRegistry) SetFallback(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = e
}

// ExtractorFor returns the extractor for the given extension, or the
// fallback if none is registered.
func (r *DefaultRegistry) ExtractorFor(extension string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.extractors[normalizeExt(extension)]; ok {
		return e, nil
	}
	if r.fallback != nil {
		return r.fallback, nil
	}
	return nil, fmt.Errorf("no extractor registered for extension %q", extension)
}

// Extract dispatches on the file name's extension.
func (r *DefaultRegistry) Extract(name string, data []byte) (string, error) {
	ext := filepath.Ext(name)
	e, err := r.ExtractorFor(ext)
	if err != nil {
		return "", domain.NewError(domain.KindExtract, name, "unsupported document type", err)
	}

	r.log.Debugf("Extracting %s (%d bytes) with %T", name, len(data), e)
	text, err := e.Extract(data)
	if err != nil {
		return "", domain.NewErrorWithSuggestion(domain.KindExtract, name,
			"failed to read document",
			"check that the file is not corrupt or password protected",
			err)
	}
	return text, nil
}

// ExtractFile reads and extracts a document from disk.
func (r *DefaultRegistry) ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewError(domain.KindExtract, path, "failed to read file", err)
	}
	return r.Extract(path, data)
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// joinParagraphs drops empty entries and joins the rest with blank lines.
func joinParagraphs(parts []string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
