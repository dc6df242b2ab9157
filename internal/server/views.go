package server

import (
	"github.com/frherrer/tcgen/internal/converter"
	"github.com/frherrer/tcgen/internal/domain"
)

// APIResponse wraps every JSON reply.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

type tableView struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type tokensView struct {
	RequirementTokens int `json:"requirement_tokens"`
	PerCaseTokens     int `json:"per_case_tokens"`
	OutputTokens      int `json:"output_tokens"`
	TotalTokens       int `json:"total_tokens"`
	MaxTokens         int `json:"max_tokens"`
}

type sessionView struct {
	Format     domain.Format `json:"format"`
	ModelID    string        `json:"model_id,omitempty"`
	Count      int           `json:"count,omitempty"`
	Estimation string        `json:"estimation,omitempty"`
	RawOutput  string        `json:"raw_output"`
	Cases      tableView     `json:"cases"`
	Steps      tableView     `json:"steps"`
	Tokens     *tokensView   `json:"tokens,omitempty"`
}

func newTableView(t domain.Table) tableView {
	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return tableView{Name: t.Name, Headers: t.Headers, Rows: rows}
}

func newTokensView(t domain.TokenEstimate) *tokensView {
	return &tokensView{
		RequirementTokens: t.RequirementTokens,
		PerCaseTokens:     t.PerCaseTokens,
		OutputTokens:      t.OutputTokens,
		TotalTokens:       t.TotalTokens,
		MaxTokens:         t.MaxTokens,
	}
}

func newSessionView(s *domain.Session) sessionView {
	v := sessionView{
		Format:     s.Format,
		ModelID:    s.ModelID,
		Count:      s.Count,
		Estimation: s.Estimation,
		RawOutput:  s.RawOutput,
		Cases:      newTableView(converter.RecordsTable(s.Records, s.Format)),
		Steps:      newTableView(converter.StepTable(s.Steps)),
	}
	if s.Tokens.TotalTokens > 0 {
		v.Tokens = newTokensView(s.Tokens)
	}
	return v
}
