package parser

import (
	"github.com/frherrer/tcgen/internal/domain"
)

// TraditionalParser parses step-based test cases:
//
//	Title: ...
//	Preconditions: ...
//	Steps:
//	1. ...
//	Expected Result: ...
type TraditionalParser struct{}

// NewTraditionalParser creates a new TraditionalParser.
func NewTraditionalParser() *TraditionalParser {
	return &TraditionalParser{}
}

// Format returns domain.FormatTraditional.
func (p *TraditionalParser) Format() domain.Format {
	return domain.FormatTraditional
}

// ParseBlock runs the label state machine over one block. The block is
// dropped unless it has a title, a step or an expected result.
func (p *TraditionalParser) ParseBlock(block string, nextID func() string) (domain.Record, bool) {
	var rec domain.TestCaseRecord
	st := stateNone

	for _, line := range blockLines(block) {
		if rule, ok := matchLabel(line); ok {
			switch rule.field {
			case fieldTitle:
				rec.Title = valueAfterColon(line)
			case fieldPreconditions:
				rec.Preconditions = valueAfterColon(line)
			case fieldExpected:
				rec.ExpectedResults = valueAfterColon(line)
			}
			st = rule.next
			continue
		}

		if line == "" {
			continue
		}
		switch st {
		case stateCollectingSteps:
			rec.Steps = append(rec.Steps, line)
		case stateCollectingExpected:
			if rec.ExpectedResults == "" {
				rec.ExpectedResults = line
			} else {
				rec.ExpectedResults += "\n" + line
			}
		}
	}

	if rec.Title == "" && len(rec.Steps) == 0 && rec.ExpectedResults == "" {
		return nil, false
	}
	rec.ID = nextID()
	return rec, true
}
