package parser

import (
	"fmt"
	"sync"

	"github.com/frherrer/tcgen/internal/domain"
)

// BlockParser turns one block of model output into a table-mode record.
// nextID is called only when the block yields a record, so skipped blocks
// never consume an ID.
type BlockParser interface {
	Format() domain.Format
	ParseBlock(block string, nextID func() string) (domain.Record, bool)
}

// ParserRegistry maps test case formats to block parsers.
type ParserRegistry interface {
	Register(parser BlockParser)
	ParserFor(format domain.Format) (BlockParser, error)
}

// DefaultRegistry is a thread-safe parser registry.
type DefaultRegistry struct {
	mu      sync.RWMutex
	parsers map[domain.Format]BlockParser
}

// NewRegistry creates a DefaultRegistry with the Traditional and BDD parsers
// already registered.
func NewRegistry() *DefaultRegistry {
	r := &DefaultRegistry{
		parsers: make(map[domain.Format]BlockParser),
	}
	r.Register(NewTraditionalParser())
	r.Register(NewBDDParser())
	return r
}

// Register adds or replaces the parser for its format.
func (r *DefaultRegistry) Register(p BlockParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// ParserFor returns the parser registered for the given format.
func (r *DefaultRegistry) ParserFor(format domain.Format) (BlockParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.parsers[format]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no parser registered for format %q", format)
}

var defaultRegistry = NewRegistry()

// ParseToTable converts raw model output into one record per test case, in
// block order, with IDs TC-001, TC-002, ... assigned to emitted records
// only. Malformed blocks are skipped; this never fails on content. An
// unregistered format yields no records.
func ParseToTable(raw string, format domain.Format) []domain.Record {
	p, err := defaultRegistry.ParserFor(format)
	if err != nil {
		return nil
	}
	return parseWith(p, raw)
}

func parseWith(p BlockParser, raw string) []domain.Record {
	n := 0
	nextID := func() string {
		n++
		return FormatID(n)
	}

	var records []domain.Record
	for _, block := range SplitBlocks(raw) {
		if rec, ok := p.ParseBlock(block, nextID); ok {
			records = append(records, rec)
		}
	}
	return records
}

// FormatID renders the n-th table-mode ID.
func FormatID(n int) string {
	return fmt.Sprintf("TC-%03d", n)
}
