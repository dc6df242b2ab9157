package cli

import (
	"github.com/spf13/cobra"

	"github.com/frherrer/tcgen/internal/extract"
	"github.com/frherrer/tcgen/internal/tokens"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Show the token budget for a requirements document",
	Long:  `Counts requirement tokens and sizes max_tokens for the configured model and case count, without calling the model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyGenerateFlags(cmd, cfg)

		text, _, err := readRequirements(cmd.InOrStdin(), extract.NewDefaultRegistry(log))
		if err != nil {
			return err
		}

		budget := tokens.Budget(
			tokens.NewEstimator().Count(text),
			tokens.PerCaseEstimate(cfg.Model.ID),
			cfg.Generation.Count,
			cfg.Model.MaxTokensCeiling,
		)
		return printBudget(cmd.OutOrStdout(), budget)
	},
}

func init() {
	f := tokensCmd.Flags()
	f.StringVarP(&genInput, "input", "i", "", `requirements document (.txt, .md, .pdf, .docx; "-" for stdin)`)
	f.StringVarP(&genText, "text", "t", "", "requirements text")
	f.IntVarP(&genCount, "count", "n", 0, "number of test cases")
	f.StringVarP(&genModel, "model", "m", "", "Bedrock model id")
	tokensCmd.MarkFlagsOneRequired("input", "text")
	tokensCmd.MarkFlagsMutuallyExclusive("input", "text")
	rootCmd.AddCommand(tokensCmd)
}
