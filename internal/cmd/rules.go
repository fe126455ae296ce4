// internal/cmd/rules.go
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"log-analyzer/internal/output"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active rule catalog in matching order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer, err := newAnalyzer(viper.GetViper())
		if err != nil {
			return err
		}
		return output.RenderRules(cmd.OutOrStdout(), analyzer.Classifier().Rules())
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
