package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models advertised by the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, err := createPipeline(cfg, newLogger(cfg), nil)
		if err != nil {
			return err
		}

		models := p.provider.ListModels(context.Background())
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"models": models})
		}

		if len(models) == 0 {
			fmt.Println("No models available. Check api_key and base_url.")
			return nil
		}
		fmt.Printf("%d models from %s:\n\n", len(models), p.provider.Name())
		for _, m := range models {
			if m.OwnedBy != "" {
				fmt.Printf("  %s (%s)\n", m.ID, m.OwnedBy)
			} else {
				fmt.Printf("  %s\n", m.ID)
			}
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(modelsCmd)
}
