package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frherrer/tcgen/internal/config"
	"github.com/frherrer/tcgen/internal/converter"
	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/export"
	"github.com/frherrer/tcgen/internal/extract"
	"github.com/frherrer/tcgen/internal/generator"
	"github.com/frherrer/tcgen/internal/scanner"
)

var (
	genInput      string
	genText       string
	genInputDirs  []string
	genFormat     string
	genCount      int
	genNoEstimate bool
	genTemp       float64
	genModel      string
	genOutput     string
	genExports    []string
	genDryRun     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test cases from requirements",
	Long: `Generates test cases for one requirements document (--input or --text),
or for every document found under the configured input directories
(--input-dir or input.directories in tcgen.yaml).`,
	Example: `  tcgen generate --input login.pdf --format bdd
  tcgen generate --text "Users can reset their password" --count 5 --no-estimate
  tcgen generate --input-dir requirements --output out`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyGenerateFlags(cmd, cfg)
		if err := config.Validate(cfg); err != nil {
			return err
		}

		gen, err := newGenerator(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		extractor := extract.NewDefaultRegistry(log)

		if genInput == "" && genText == "" {
			return runBatch(cmd, cfg, gen, extractor)
		}
		return runSingle(cmd, cfg, gen, extractor)
	},
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genInput, "input", "i", "", `requirements document (.txt, .md, .pdf, .docx; "-" for stdin)`)
	f.StringVarP(&genText, "text", "t", "", "requirements text")
	f.StringSliceVar(&genInputDirs, "input-dir", nil, "directories to scan for requirement documents")
	f.StringVarP(&genFormat, "format", "f", "", "test case format: traditional or bdd")
	f.IntVarP(&genCount, "count", "n", 0, "number of test cases (also the estimate fallback)")
	f.BoolVar(&genNoEstimate, "no-estimate", false, "skip the count estimate and use --count")
	f.Float64Var(&genTemp, "temperature", 0, "sampling temperature in [0, 1]")
	f.StringVarP(&genModel, "model", "m", "", "Bedrock model id")
	f.StringVarP(&genOutput, "output", "o", "", "output directory")
	f.StringSliceVar(&genExports, "export", nil, "export formats: csv, xlsx, txt")
	f.BoolVar(&genDryRun, "dry-run", false, "scan and size requests without calling the model")
	generateCmd.MarkFlagsMutuallyExclusive("input", "text", "input-dir")

	rootCmd.AddCommand(generateCmd)
}

// applyGenerateFlags overrides config values with flags that were set.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("input-dir") {
		cfg.Input.Directories = genInputDirs
	}
	if f.Changed("format") {
		cfg.Generation.Format = genFormat
	}
	if f.Changed("count") {
		cfg.Generation.Count = genCount
	}
	if genNoEstimate {
		cfg.Generation.Estimate = false
	}
	if f.Changed("temperature") {
		cfg.Model.Temperature = genTemp
	}
	if f.Changed("model") {
		cfg.Model.ID = genModel
	}
	if f.Changed("output") {
		cfg.Output.Directory = genOutput
	}
	if f.Changed("export") {
		cfg.Output.Formats = genExports
	}
	cfg.DryRun = genDryRun
}

func runBatch(cmd *cobra.Command, cfg *config.Config, gen generator.Generator, x *extract.DefaultRegistry) error {
	recursive := true
	if cfg.Input.Recursive != nil {
		recursive = *cfg.Input.Recursive
	}
	log.Infof("Scanning directories: %s", strings.Join(cfg.Input.Directories, ", "))

	batch := generator.NewBatch(scanner.NewScanner(recursive), x, gen, log)
	res, err := batch.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d document(s) processed, %d skipped, %d file(s) written\n",
		res.Documents, len(res.Skipped), len(res.Written))
	return nil
}

func runSingle(cmd *cobra.Command, cfg *config.Config, gen generator.Generator, x *extract.DefaultRegistry) error {
	text, stem, err := readRequirements(cmd.InOrStdin(), x)
	if err != nil {
		return err
	}

	req, err := generator.RequestFromConfig(cfg, text)
	if err != nil {
		return err
	}
	if cfg.DryRun {
		return printBudget(cmd.OutOrStdout(), gen.Budget(req))
	}

	s, err := gen.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.Estimation != "" {
		fmt.Fprintf(out, "Estimation:\n%s\n\n", s.Estimation)
	}
	if err := printSession(out, s); err != nil {
		return err
	}

	written, err := export.WriteFiles(cfg.Output.Directory, cfg.Output.FilePrefix, stem,
		cfg.Output.Formats, s, cfg.Output.StepsSheet)
	for _, w := range written {
		log.Infof("Writing: %s", w)
	}
	return err
}

// readRequirements returns the requirements text and the file name stem
// used for exports.
func readRequirements(stdin io.Reader, x *extract.DefaultRegistry) (string, string, error) {
	switch {
	case genText != "":
		return genText, "requirements", nil
	case genInput == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", domain.NewError(domain.KindInput, "stdin", "failed to read requirements", err)
		}
		return string(data), "requirements", nil
	}

	text, err := x.ExtractFile(genInput)
	if err != nil {
		return "", "", err
	}
	base := filepath.Base(genInput)
	return text, strings.TrimSuffix(base, filepath.Ext(base)), nil
}

func printSession(w io.Writer, s *domain.Session) error {
	cases := converter.RecordsTable(s.Records, s.Format)
	if len(cases.Rows) == 0 {
		fmt.Fprintln(w, "No test cases could be parsed; see the raw output export.")
		return nil
	}
	return export.RenderTerminal(w, cases)
}

func printBudget(w io.Writer, t domain.TokenEstimate) error {
	_, err := fmt.Fprintf(w,
		"Requirement tokens: %d\nEstimated output tokens: %d (%d per case)\nTotal: %d\nmax_tokens: %d\n",
		t.RequirementTokens, t.OutputTokens, t.PerCaseTokens, t.TotalTokens, t.MaxTokens)
	return err
}

