package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Xu-Jack11/aipartner/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize aipartner configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose an AI backend and writes a .aipartner.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
