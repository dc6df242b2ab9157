package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frherrer/tcgen/internal/converter"
	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/export"
	"github.com/frherrer/tcgen/internal/generator"
)

var (
	parseFormat  string
	parseSteps   bool
	parseOutput  string
	parseExports []string
)

var parseCmd = &cobra.Command{
	Use:   "parse <raw-output-file>",
	Short: "Parse saved model output into test case tables",
	Long:  `Re-parses a previously saved raw model output (for example a .txt export) without calling the model.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := cfg.Generation.Format
		if cmd.Flags().Changed("format") {
			name = parseFormat
		}
		format, err := domain.ParseFormat(name)
		if err != nil {
			return domain.NewError(domain.KindInput, "format", err.Error(), nil)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return domain.NewError(domain.KindInput, args[0], "failed to read raw output", err)
		}
		s := generator.ParseSession(string(data), format)
		log.Debugf("Parsed %d record(s), %d step row(s)", len(s.Records), len(s.Steps))

		out := cmd.OutOrStdout()
		if err := printSession(out, s); err != nil {
			return err
		}
		if parseSteps && len(s.Steps) > 0 {
			fmt.Fprintln(out)
			if err := export.RenderTerminal(out, converter.StepTable(s.Steps)); err != nil {
				return err
			}
		}

		if parseOutput == "" {
			return nil
		}
		kinds := cfg.Output.Formats
		if cmd.Flags().Changed("export") {
			kinds = parseExports
		}
		base := filepath.Base(args[0])
		written, err := export.WriteFiles(parseOutput, cfg.Output.FilePrefix,
			strings.TrimSuffix(base, filepath.Ext(base)), kinds, s, cfg.Output.StepsSheet)
		for _, w := range written {
			log.Infof("Writing: %s", w)
		}
		return err
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "test case format: traditional or bdd")
	parseCmd.Flags().BoolVar(&parseSteps, "steps", false, "also print the step-expansion table")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write exports to this directory")
	parseCmd.Flags().StringSliceVar(&parseExports, "export", nil, "export formats: csv, xlsx, txt")
	rootCmd.AddCommand(parseCmd)
}
