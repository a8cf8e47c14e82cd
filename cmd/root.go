package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aipartner",
	Short: "AI study companion backend",
	Long: `aipartner serves a study companion API: conversations answered by an
OpenAI-compatible backend, optionally enriched with a built-in knowledge base
and web search, and learning plans generated from those conversations. The
same pipeline is available to AI agents over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".aipartner.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
