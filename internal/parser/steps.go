package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/frherrer/tcgen/internal/domain"
)

var (
	// stepLine matches "1. do X" and "2) do Y".
	stepLine = regexp.MustCompile(`^\d+[).]\s*`)
	// bareCaseID matches an unlabeled "TC-012" line.
	bareCaseID = regexp.MustCompile(`(?i)^tc-`)
)

// caseScalars are the case-level fields repeated on every step row. They
// survive block boundaries: a block that omits a label inherits the value
// from the last block that set it.
type caseScalars struct {
	id, title, preconditions, expected, priority, tags *string
}

func (c *caseScalars) set(f field, line string) {
	v := valueAfterColon(line)
	switch f {
	case fieldID:
		c.id = &v
	case fieldTitle:
		c.title = &v
	case fieldPreconditions:
		c.preconditions = &v
	case fieldExpected:
		c.expected = &v
	case fieldPriority:
		c.priority = &v
	case fieldTags:
		c.tags = &v
	}
}

// ParseToSteps expands Traditional output into one row per numbered step.
// Steps are renumbered from 1 within each block; blocks without step lines
// contribute nothing but keep the carried case fields.
func ParseToSteps(raw string) []domain.StepRow {
	var (
		rows    []domain.StepRow
		scalars caseScalars
	)

	for _, block := range SplitBlocks(raw) {
		var steps []string
		for _, line := range blockLines(block) {
			if rule, ok := matchLabel(line); ok {
				if rule.field != fieldNone {
					scalars.set(rule.field, line)
				}
				continue
			}
			if bareCaseID.MatchString(line) {
				id := line
				scalars.id = &id
				continue
			}
			if loc := stepLine.FindStringIndex(line); loc != nil {
				steps = append(steps, strings.TrimSpace(line[loc[1]:]))
			}
		}

		for i, step := range steps {
			rows = append(rows, domain.StepRow{
				ID:             scalars.id,
				Title:          scalars.title,
				Preconditions:  scalars.preconditions,
				Step:           fmt.Sprintf("%d. %s", i+1, step),
				ExpectedResult: scalars.expected,
				Priority:       scalars.priority,
				Tags:           scalars.tags,
			})
		}
	}
	return rows
}
