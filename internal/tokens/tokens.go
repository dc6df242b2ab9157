// Package tokens estimates prompt and output sizes in model tokens. Counts
// are only used to size the generation budget and for display.
package tokens

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/frherrer/tcgen/internal/domain"
)

const (
	// MaxTokensCeiling caps any single generation request.
	MaxTokensCeiling = 8000
	// Buffer is added on top of input and expected output.
	Buffer = 200

	claudePerCase  = 180
	defaultPerCase = 150
)

// Counter counts tokens in text.
type Counter interface {
	Count(text string) int
}

// Estimator counts tokens with the cl100k_base encoding, falling back to a
// character heuristic when the encoding cannot be loaded.
type Estimator struct {
	once     sync.Once
	encoding *tiktoken.Tiktoken
	mu       sync.Mutex
}

// NewEstimator creates an Estimator. The encoding is loaded on first use.
func NewEstimator() *Estimator {
	return &Estimator{}
}

func (e *Estimator) load() {
	e.once.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			e.encoding = enc
		}
	})
}

// Count returns the number of tokens in text, 0 for empty text.
func (e *Estimator) Count(text string) int {
	if text == "" {
		return 0
	}
	e.load()
	if e.encoding == nil {
		return EstimateFast(text)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.encoding.Encode(text, nil, nil))
}

// EstimateFast returns max(runes/4, words), at least 1 for non-blank text.
func EstimateFast(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	estimate := len([]rune(trimmed)) / 4
	if words := len(strings.Fields(trimmed)); estimate < words {
		estimate = words
	}
	if estimate == 0 {
		estimate = 1
	}
	return estimate
}

// PerCaseEstimate is the expected output size of one generated test case.
// Claude models are wordier.
func PerCaseEstimate(modelID string) int {
	if strings.Contains(modelID, "claude") {
		return claudePerCase
	}
	return defaultPerCase
}

// Budget sizes a generation request for count cases. MaxTokens is the total
// estimate capped at ceiling; a non-positive ceiling means MaxTokensCeiling.
func Budget(requirementTokens, perCase, count, ceiling int) domain.TokenEstimate {
	if ceiling <= 0 {
		ceiling = MaxTokensCeiling
	}
	output := perCase * count
	total := requirementTokens + output + Buffer
	return domain.TokenEstimate{
		RequirementTokens: requirementTokens,
		PerCaseTokens:     perCase,
		OutputTokens:      output,
		TotalTokens:       total,
		MaxTokens:         min(total, ceiling),
	}
}
