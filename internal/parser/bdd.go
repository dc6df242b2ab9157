package parser

import (
	"regexp"
	"strings"

	"github.com/frherrer/tcgen/internal/domain"
)

// preconditionLine matches "Preconditions:", "- **Precondition:**" and
// "**Preconditions**:" at the start of a lower-cased line.
var preconditionLine = regexp.MustCompile(`^(?:- )?(?:\*\*)?preconditions?(?:\*\*)?:`)

var scenarioLabel = regexp.MustCompile(`(?i)scenario:`)

// BDDParser parses Given/When/Then scenarios.
type BDDParser struct{}

// NewBDDParser creates a new BDDParser.
func NewBDDParser() *BDDParser {
	return &BDDParser{}
}

// Format returns domain.FormatBDD.
func (p *BDDParser) Format() domain.Format {
	return domain.FormatBDD
}

// ParseBlock takes the scenario name from the first scenario line, an
// optional preconditions line, and every later non-blank line as the
// description, including lines that mention "scenario:" again.
func (p *BDDParser) ParseBlock(block string, nextID func() string) (domain.Record, bool) {
	var rec domain.BddRecord
	foundScenario := false

	for _, line := range blockLines(block) {
		isScenario := false
		if !foundScenario {
			if loc := scenarioLabel.FindStringIndex(line); loc != nil {
				rec.Scenario = scenarioName(line, loc)
				foundScenario = true
				isScenario = true
			}
		}

		if preconditionLine.MatchString(strings.ToLower(line)) {
			rec.Preconditions = valueAfterColon(line)
			continue
		}
		if isScenario || !foundScenario || line == "" {
			continue
		}
		rec.Description = append(rec.Description, line)
	}

	if rec.Scenario == "" && len(rec.Description) == 0 {
		return nil, false
	}
	rec.ID = nextID()
	return rec, true
}

// scenarioName returns the text after the first literal "Scenario:", or
// after the case-insensitive match at loc when the literal is absent.
func scenarioName(line string, loc []int) string {
	if before, after, ok := strings.Cut(line, "Scenario:"); ok {
		return labelValue(before+"Scenario", after)
	}
	return labelValue(line[:loc[1]-1], line[loc[1]:])
}
