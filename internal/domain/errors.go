package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The first four are the user-facing failure classes of a
// generation attempt; the rest come from the surrounding tooling.
const (
	KindInput            = "input"
	KindExtract          = "extract"
	KindUnsupportedModel = "unsupported_model"
	KindTransport        = "transport"
	KindConfig           = "config"
	KindTemplate         = "template"
	KindExport           = "export"
	KindScan             = "scan"
)

// Sentinels for errors.Is matching against a GenError's Kind.
var (
	ErrInput            = errors.New("invalid input")
	ErrExtraction       = errors.New("document extraction failed")
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrTransport        = errors.New("model invocation failed")
)

var kindSentinels = map[string]error{
	KindInput:            ErrInput,
	KindExtract:          ErrExtraction,
	KindUnsupportedModel: ErrUnsupportedModel,
	KindTransport:        ErrTransport,
}

// GenError is the base error type with context.
type GenError struct {
	Kind       string
	Source     string // file name, model id, or config path
	Message    string
	Suggestion string
	Cause      error
}

func (e *GenError) Error() string {
	s := fmt.Sprintf("[%s]", e.Kind)
	if e.Source != "" {
		s += fmt.Sprintf(" %s", e.Source)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *GenError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrTransport) and friends match on Kind.
func (e *GenError) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// NewError creates a new GenError.
func NewError(kind, source, message string, cause error) *GenError {
	return &GenError{
		Kind:    kind,
		Source:  source,
		Message: message,
		Cause:   cause,
	}
}

// NewErrorWithSuggestion creates a GenError carrying a remediation hint.
func NewErrorWithSuggestion(kind, source, message, suggestion string, cause error) *GenError {
	e := NewError(kind, source, message, cause)
	e.Suggestion = suggestion
	return e
}

// KindOf returns the Kind of the first GenError in err's chain, or "".
func KindOf(err error) string {
	var ge *GenError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
