package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mindmaven",
	Short: "AI-powered mind map generator",
	Long: `MindMaven turns any topic into an interactive mind map. It asks an
LLM for a hierarchical outline, lays it out as an expandable
node-link diagram, and serves it to your browser. Generated maps are
saved locally and searchable by meaning.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".mindmaven.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
