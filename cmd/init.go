package cmd

import (
	"github.com/spf13/cobra"

	"github.com/A-dvika/MindMaven/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mindmaven configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick an LLM provider and quality tier, and writes a .mindmaven.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
