package converter

import (
	"github.com/frherrer/tcgen/internal/domain"
)

// Column orders for the three table views.
var (
	TraditionalHeaders = []string{"ID", "Title", "Preconditions", "Steps", "Expected Results"}
	BDDHeaders         = []string{"ID", "Scenario", "Preconditions", "Description"}
	StepHeaders        = []string{"ID", "Title", "Preconditions", "Step", "Expected Result", "Priority", "Tags"}
)

// Table names double as export sheet and file name stems.
const (
	CasesTableName = "TestCases"
	StepsTableName = "TestCaseSteps"
)

// RecordsTable renders table-mode records with the column order for format.
// Records of another format are skipped.
func RecordsTable(records []domain.Record, format domain.Format) domain.Table {
	if format == domain.FormatBDD {
		return BDDTable(records)
	}
	return TraditionalTable(records)
}

// TraditionalTable renders Traditional records.
func TraditionalTable(records []domain.Record) domain.Table {
	t := domain.Table{Name: CasesTableName, Headers: TraditionalHeaders}
	for _, r := range records {
		rec, ok := r.(domain.TestCaseRecord)
		if !ok {
			continue
		}
		t.Rows = append(t.Rows, []string{
			rec.ID,
			rec.Title,
			rec.Preconditions,
			rec.StepsText(),
			rec.ExpectedResults,
		})
	}
	return t
}

// BDDTable renders BDD records.
func BDDTable(records []domain.Record) domain.Table {
	t := domain.Table{Name: CasesTableName, Headers: BDDHeaders}
	for _, r := range records {
		rec, ok := r.(domain.BddRecord)
		if !ok {
			continue
		}
		t.Rows = append(t.Rows, []string{
			rec.ID,
			rec.Scenario,
			rec.Preconditions,
			rec.DescriptionText(),
		})
	}
	return t
}

// StepTable renders step-expansion rows. Unset fields become empty cells.
func StepTable(rows []domain.StepRow) domain.Table {
	t := domain.Table{Name: StepsTableName, Headers: StepHeaders}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			value(r.ID),
			value(r.Title),
			value(r.Preconditions),
			r.Step,
			value(r.ExpectedResult),
			value(r.Priority),
			value(r.Tags),
		})
	}
	return t
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
