package generator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/tcgen/internal/config"
	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/model"
	"github.com/frherrer/tcgen/internal/parser"
	tmpl "github.com/frherrer/tcgen/internal/template"
	"github.com/frherrer/tcgen/internal/tokens"
)

// estimateTemperature is used for the count estimate regardless of the
// requested generation temperature.
const estimateTemperature = 0.0

var estimatedCount = regexp.MustCompile(`(?i)number:\s*(\d+)`)

// Request is one generate action.
type Request struct {
	Requirements string
	Format       domain.Format
	ModelID      string
	// Estimate asks the model for a case count before generating. Count is
	// used when Estimate is off or the estimate has no "number:" line.
	Estimate    bool
	Count       int
	Temperature float64
}

// RequestFromConfig builds a Request from the generation and model sections.
func RequestFromConfig(cfg *config.Config, requirements string) (Request, error) {
	format, err := domain.ParseFormat(cfg.Generation.Format)
	if err != nil {
		return Request{}, domain.NewError(domain.KindConfig, "generation.format", err.Error(), nil)
	}
	return Request{
		Requirements: requirements,
		Format:       format,
		ModelID:      cfg.Model.ID,
		Estimate:     cfg.Generation.Estimate,
		Count:        cfg.Generation.Count,
		Temperature:  cfg.Model.Temperature,
	}, nil
}

// Generator turns requirements into a parsed Session.
type Generator interface {
	Generate(ctx context.Context, req Request) (*domain.Session, error)
	Budget(req Request) domain.TokenEstimate
	Reset() *domain.Session
}

// DefaultGenerator implements Generator by wiring the prompt engine, the
// model adapter, the token counter and the parser together.
type DefaultGenerator struct {
	engine  tmpl.PromptEngine
	invoker model.Invoker
	counter tokens.Counter
	ceiling int
	log     *logrus.Logger
}

// NewGenerator creates a new DefaultGenerator. A non-positive ceiling means
// tokens.MaxTokensCeiling.
func NewGenerator(
	e tmpl.PromptEngine,
	inv model.Invoker,
	c tokens.Counter,
	ceiling int,
	log *logrus.Logger,
) *DefaultGenerator {
	return &DefaultGenerator{
		engine:  e,
		invoker: inv,
		counter: c,
		ceiling: ceiling,
		log:     log,
	}
}

// Budget computes the token panel for req without calling the model.
func (g *DefaultGenerator) Budget(req Request) domain.TokenEstimate {
	return tokens.Budget(
		g.counter.Count(req.Requirements),
		tokens.PerCaseEstimate(req.ModelID),
		req.Count,
		g.ceiling,
	)
}

// Generate runs estimate (optional) then generate, and parses the output in
// both table and step-expansion modes. Calls are strictly sequential. On any
// failure no partial session is returned.
func (g *DefaultGenerator) Generate(ctx context.Context, req Request) (*domain.Session, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	budget := g.Budget(req)
	g.log.Debugf("Token budget: requirements=%d output=%d max=%d",
		budget.RequirementTokens, budget.OutputTokens, budget.MaxTokens)

	s := &domain.Session{
		Requirements: req.Requirements,
		Format:       req.Format,
		ModelID:      req.ModelID,
		Count:        req.Count,
		Tokens:       budget,
	}

	if req.Estimate {
		prompt, err := g.engine.EstimatePrompt(req.Requirements)
		if err != nil {
			return nil, err
		}
		g.log.Infof("Estimating test case count with %s", req.ModelID)
		est, err := g.invoker.Invoke(ctx, prompt, req.ModelID, budget.MaxTokens, estimateTemperature)
		if err != nil {
			return nil, err
		}
		s.Estimation = est
		if n, ok := ParseEstimate(est); ok {
			s.Count = clampCount(n)
			g.log.Debugf("Estimated %d test case(s)", s.Count)
		} else {
			g.log.Debugf("No count in estimate, using %d", s.Count)
		}
		s.Tokens = tokens.Budget(budget.RequirementTokens, budget.PerCaseTokens, s.Count, g.ceiling)
	}

	prompt, err := g.engine.GeneratePrompt(s.Count, req.Format, req.Requirements)
	if err != nil {
		return nil, err
	}
	g.log.Infof("Generating %d %s test case(s) with %s", s.Count, req.Format, req.ModelID)
	raw, err := g.invoker.Invoke(ctx, prompt, req.ModelID, s.Tokens.MaxTokens, req.Temperature)
	if err != nil {
		return nil, err
	}

	parsed := ParseSession(raw, req.Format)
	s.RawOutput = parsed.RawOutput
	s.Records = parsed.Records
	s.Steps = parsed.Steps
	g.log.Infof("Parsed %d test case(s), %d step row(s)", len(s.Records), len(s.Steps))
	return s, nil
}

// ParseSession rebuilds a session from previously generated output without
// calling the model.
func ParseSession(raw string, format domain.Format) *domain.Session {
	return &domain.Session{
		Format:    format,
		RawOutput: raw,
		Records:   parser.ParseToTable(raw, format),
		Steps:     parser.ParseToSteps(raw),
	}
}

// Reset returns an empty session.
func (g *DefaultGenerator) Reset() *domain.Session {
	return &domain.Session{}
}

// ParseEstimate extracts the integer after "number:" in an estimate reply.
func ParseEstimate(text string) (int, bool) {
	m := estimatedCount.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func clampCount(n int) int {
	return max(config.MinCount, min(n, config.MaxCount))
}

func validate(req Request) error {
	if strings.TrimSpace(req.Requirements) == "" {
		return domain.NewErrorWithSuggestion(domain.KindInput, "requirements",
			"requirements text is empty",
			"paste requirements text or upload a document",
			nil)
	}
	if _, err := domain.ParseFormat(string(req.Format)); err != nil {
		return domain.NewError(domain.KindInput, "format", err.Error(), nil)
	}
	if req.Count < config.MinCount || req.Count > config.MaxCount {
		return domain.NewError(domain.KindInput, "count",
			fmt.Sprintf("count must be within [%d, %d] (got %d)", config.MinCount, config.MaxCount, req.Count), nil)
	}
	if req.Temperature < 0 || req.Temperature > 1 {
		return domain.NewError(domain.KindInput, "temperature",
			fmt.Sprintf("temperature must be within [0, 1] (got %g)", req.Temperature), nil)
	}
	return nil
}
