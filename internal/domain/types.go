package domain

import (
	"fmt"
	"strings"
)

// Format selects the test case template family.
type Format string

const (
	FormatTraditional Format = "traditional"
	FormatBDD         Format = "bdd"
)

// ParseFormat accepts "traditional" or "bdd" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTraditional:
		return FormatTraditional, nil
	case FormatBDD:
		return FormatBDD, nil
	}
	return "", fmt.Errorf("unknown test case format %q (want traditional or bdd)", s)
}

// Label is the display name used in prompts ("TRADITIONAL", "BDD").
func (f Format) Label() string {
	return strings.ToUpper(string(f))
}

// Record is one table-mode row; the concrete type depends on the Format.
type Record interface {
	RecordID() string
}

// TestCaseRecord is one Traditional test case.
type TestCaseRecord struct {
	ID              string
	Title           string
	Preconditions   string
	Steps           []string
	ExpectedResults string
}

func (r TestCaseRecord) RecordID() string { return r.ID }

// StepsText joins the steps for display.
func (r TestCaseRecord) StepsText() string {
	return strings.Join(r.Steps, "\n")
}

// BddRecord is one Given/When/Then scenario.
type BddRecord struct {
	ID            string
	Scenario      string
	Preconditions string
	Description   []string
}

func (r BddRecord) RecordID() string { return r.ID }

// DescriptionText joins the description lines for display.
func (r BddRecord) DescriptionText() string {
	return strings.Join(r.Description, "\n")
}

// StepRow is one step of a Traditional case with the case-level fields
// repeated alongside it. Nil pointers mean the label was never seen.
type StepRow struct {
	ID             *string
	Title          *string
	Preconditions  *string
	Step           string
	ExpectedResult *string
	Priority       *string
	Tags           *string
}

// Table is a rendered, fixed-column view of parsed records.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// TokenEstimate is the token panel shown next to the generate controls.
type TokenEstimate struct {
	RequirementTokens int
	PerCaseTokens     int
	OutputTokens      int
	TotalTokens       int
	MaxTokens         int
}

// Session holds everything produced for one user between regenerate or
// reset actions. It is replaced wholesale, never patched.
type Session struct {
	Requirements string
	Format       Format
	ModelID      string
	Estimation   string
	Count        int
	RawOutput    string
	Records      []Record
	Steps        []StepRow
	Tokens       TokenEstimate
}

// HasResults reports whether a generation has completed in this session.
func (s *Session) HasResults() bool {
	return s != nil && s.RawOutput != ""
}
