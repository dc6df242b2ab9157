package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frherrer/tcgen/internal/config"
)

var (
	cfgFile string
	verbose bool
	log     = newLogger()
)

// rootCmd is the base command for tcgen.
var rootCmd = &cobra.Command{
	Use:   "tcgen",
	Short: "Generate manual test cases from requirements with a hosted LLM",
	Long: `tcgen reads requirements (text, Markdown, PDF or DOCX), asks a Bedrock
model for manual test cases in Traditional or BDD format, and exports the
parsed cases as CSV, Excel and plain text.

Defaults come from a YAML configuration file (tcgen.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// loadConfig reads and validates the config file. The logging level from
// the file applies unless --verbose is set.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if !verbose && cfg.Logging.Level != "" {
		if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
			log.SetLevel(level)
		}
	}
	log.Debugf("Loaded config from %s", cfgFile)
	return cfg, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
