// internal/cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"log-analyzer/internal/logging"
	"log-analyzer/internal/models"
	"log-analyzer/internal/processor"
)

var (
	cfgFile   string
	outputFmt string
	logLevel  string

	// configErr holds the config read failure until a command runs
	configErr error
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "loganalyzer",
	Short: "Classify log files and suggest fixes",
	Long: `loganalyzer reads plain-text log files, extracts timestamps and levels,
classifies every line against an ordered rule catalog and prints a diagnostic
report with severity counts, hourly distribution and remediation suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(false, logging.ParseLevel(viper.GetString("log_level")))
		return configErr
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.loganalyzer.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	home := ""
	if cfgFile == "" {
		var err error
		home, err = os.UserHomeDir()
		cobra.CheckErr(err)
	}
	configErr = readConfig(viper.GetViper(), cfgFile, home)
}

// readConfig loads file, or .loganalyzer.yaml from home or the working
// directory when file is empty. Only a missing implicit config is tolerated.
func readConfig(v *viper.Viper, file, home string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".loganalyzer")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LOGANALYZER")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// newAnalyzer builds an analyzer from the "rules" config key, falling back to
// the built-in catalog when none is configured.
func newAnalyzer(v *viper.Viper) (*processor.Analyzer, error) {
	catalog := processor.DefaultCatalog()
	if v.IsSet("rules") {
		var custom []models.RuleSpec
		if err := v.UnmarshalKey("rules", &custom); err != nil {
			return nil, fmt.Errorf("invalid rules in config: %w", err)
		}
		catalog = custom
	}

	rules, err := processor.CompileCatalog(catalog)
	if err != nil {
		return nil, fmt.Errorf("invalid rule catalog: %w", err)
	}
	return processor.NewAnalyzer(processor.NewClassifier(rules, processor.DefaultFallback())), nil
}
