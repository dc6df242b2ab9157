package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/frherrer/tcgen/internal/domain"
)

const maxCellWidth = 60

// RenderTerminal prints the table aligned in columns with a bold header.
// Multi-line cells are flattened with " / " and long cells truncated.
func RenderTerminal(w io.Writer, t domain.Table) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = flatten(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header, body, _ := strings.Cut(buf.String(), "\n")
	bold := color.New(color.Bold)
	if _, err := fmt.Fprintln(w, bold.Sprint(header)); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\n", " / ")
	if r := []rune(s); len(r) > maxCellWidth {
		return string(r[:maxCellWidth-3]) + "..."
	}
	return s
}
