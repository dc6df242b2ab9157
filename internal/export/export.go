// Package export serializes parsed test case tables.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/frherrer/tcgen/internal/converter"
	"github.com/frherrer/tcgen/internal/domain"
)

// Export kinds.
const (
	KindCSV   = "csv"
	KindExcel = "xlsx"
	KindText  = "txt"
)

// Download file stems.
const (
	CasesFileStem = "testcases"
	StepsFileStem = "test_case_steps"
)

// ContentTypes maps export kinds to MIME types for downloads.
var ContentTypes = map[string]string{
	KindCSV:   "text/csv",
	KindExcel: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	KindText:  "text/plain",
}

// WriteCSV writes the table as UTF-8 comma-separated values with a header row.
func WriteCSV(w io.Writer, t domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return domain.NewError(domain.KindExport, t.Name, "failed to write csv header", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return domain.NewError(domain.KindExport, t.Name, "failed to write csv rows", err)
	}
	return nil
}

// WriteExcel writes one worksheet per table, named after the table.
func WriteExcel(w io.Writer, tables ...domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return domain.NewError(domain.KindExport, "", "failed to create header style", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return domain.NewError(domain.KindExport, "", "failed to create cell style", err)
	}

	for i, t := range tables {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), t.Name)
		} else {
			_, err = f.NewSheet(t.Name)
		}
		if err != nil {
			return domain.NewError(domain.KindExport, t.Name, "failed to create worksheet", err)
		}
		if err := writeSheet(f, t, header, wrap); err != nil {
			return domain.NewError(domain.KindExport, t.Name, "failed to write worksheet", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return domain.NewError(domain.KindExport, "", "failed to write workbook", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t domain.Table, headerStyle, cellStyle int) error {
	for row, cells := range append([][]string{t.Headers}, t.Rows...) {
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, row+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(t.Name, cell, v); err != nil {
				return err
			}
		}
	}
	if len(t.Headers) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.Name, "A1", last, headerStyle); err != nil {
		return err
	}
	if len(t.Rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(t.Headers), len(t.Rows)+1)
		if err != nil {
			return err
		}
		return f.SetCellStyle(t.Name, "A2", end, cellStyle)
	}
	return nil
}

// WriteText writes the raw model output verbatim.
func WriteText(w io.Writer, raw string) error {
	if _, err := io.WriteString(w, raw); err != nil {
		return domain.NewError(domain.KindExport, "", "failed to write text", err)
	}
	return nil
}

// Write serializes the case table of a session in one export kind. The
// xlsx workbook holds the single TestCases sheet.
func Write(w io.Writer, kind string, s *domain.Session) error {
	cases := converter.RecordsTable(s.Records, s.Format)

	switch kind {
	case KindCSV:
		return WriteCSV(w, cases)
	case KindExcel:
		return WriteExcel(w, cases)
	case KindText:
		return WriteText(w, s.RawOutput)
	}
	return domain.NewError(domain.KindExport, kind, "unknown export format", nil)
}

// WriteSteps serializes only the step-expansion table.
func WriteSteps(w io.Writer, kind string, rows []domain.StepRow) error {
	t := converter.StepTable(rows)
	switch kind {
	case KindCSV:
		return WriteCSV(w, t)
	case KindExcel:
		return WriteExcel(w, t)
	}
	return domain.NewError(domain.KindExport, kind, "step table exports as csv or xlsx only", nil)
}

// WriteFiles writes the session to dir as <prefix><stem>.<kind> for each
// kind. When withSteps is set and a Traditional session has step rows, the
// step table follows as <prefix><stem>_steps.<kind> for each spreadsheet
// kind requested. It returns the written paths.
func WriteFiles(dir, prefix, stem string, kinds []string, s *domain.Session, withSteps bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.NewErrorWithSuggestion(domain.KindExport, dir,
			"failed to create output directory",
			"check that the parent directory exists and has write permissions",
			err)
	}

	var written []string
	for _, kind := range kinds {
		path := filepath.Join(dir, fmt.Sprintf("%s%s.%s", prefix, stem, kind))
		if err := writeFile(path, func(w io.Writer) error { return Write(w, kind, s) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if !withSteps || s.Format != domain.FormatTraditional || len(s.Steps) == 0 {
		return written, nil
	}
	for _, kind := range []string{KindCSV, KindExcel} {
		if !contains(kinds, kind) {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s%s_steps.%s", prefix, stem, kind))
		if err := writeFile(path, func(w io.Writer) error { return WriteSteps(w, kind, s.Steps) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewError(domain.KindExport, path, "failed to create file", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return domain.NewError(domain.KindExport, path, "failed to close file", err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
