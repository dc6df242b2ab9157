package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frherrer/tcgen/internal/config"
	tmpl "github.com/frherrer/tcgen/internal/template"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the tcgen.yaml configuration file",
	Long:  `Loads the configuration file and prompt templates and checks for errors, missing required fields, and invalid values.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		engine, err := tmpl.NewEngine(cfg.Templates.Directory)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file %q is valid.\n", cfgFile)
		fmt.Fprintf(out, "Templates: %s\n", strings.Join(engine.ListTemplates(), ", "))
		log.Debugf("Loaded config: %+v", cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
