package parser

import "strings"

// field identifies the case-level value a label line carries.
type field int

const (
	fieldNone field = iota
	fieldID
	fieldTitle
	fieldPreconditions
	fieldExpected
	fieldPriority
	fieldTags
)

// state is the Traditional block parser's collection mode.
type state int

const (
	stateNone state = iota
	stateCollectingSteps
	stateCollectingExpected
)

func (s state) String() string {
	switch s {
	case stateCollectingSteps:
		return "COLLECTING_STEPS"
	case stateCollectingExpected:
		return "COLLECTING_EXPECTED"
	default:
		return "NONE"
	}
}

// labelRule binds a case-insensitive line prefix to the field it sets and
// the state the Traditional parser moves to.
type labelRule struct {
	prefix string
	field  field
	next   state
}

// labelRules is checked in order; the first matching prefix wins.
var labelRules = []labelRule{
	{prefix: "id:", field: fieldID, next: stateNone},
	{prefix: "title:", field: fieldTitle, next: stateNone},
	{prefix: "preconditions:", field: fieldPreconditions, next: stateNone},
	{prefix: "steps:", field: fieldNone, next: stateCollectingSteps},
	{prefix: "expected result:", field: fieldExpected, next: stateCollectingExpected},
	{prefix: "expected results:", field: fieldExpected, next: stateCollectingExpected},
	{prefix: "priority:", field: fieldPriority, next: stateNone},
	{prefix: "tags:", field: fieldTags, next: stateNone},
}

// matchLabel returns the rule whose prefix starts the trimmed line.
func matchLabel(line string) (labelRule, bool) {
	lower := strings.ToLower(line)
	for _, r := range labelRules {
		if strings.HasPrefix(lower, r.prefix) {
			return r, true
		}
	}
	return labelRule{}, false
}
