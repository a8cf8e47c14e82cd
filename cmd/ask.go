package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Xu-Jack11/aipartner/internal/llm"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the study assistant a single question",
	Long: `Sends one question through the completion pipeline. Use --tools to enrich the
question with knowledge-base, web-search or deep-analyze.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSlice("tools", nil, "enrichment tools: knowledge-base, web-search, deep-analyze")
	askCmd.Flags().String("model", "", "model override")
	askCmd.Flags().String("system", "", "optional system prompt")
	askCmd.Flags().Bool("json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	tools, _ := cmd.Flags().GetStringSlice("tools")
	model, _ := cmd.Flags().GetString("model")
	system, _ := cmd.Flags().GetString("system")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := createPipeline(cfg, newLogger(cfg), nil)
	if err != nil {
		return err
	}

	var messages []llm.Message
	if s := strings.TrimSpace(system); s != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: args[0]})

	req := llm.CompletionRequest{Messages: messages, Model: model}
	for _, t := range tools {
		req.Tools = append(req.Tools, llm.ToolName(strings.TrimSpace(t)))
	}

	resp, err := p.provider.Complete(context.Background(), req)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Content)
	if resp.Tokens > 0 || resp.Model != "" {
		fmt.Fprintf(os.Stderr, "\n[%s, %d tokens]\n", resp.Model, resp.Tokens)
	}
	return nil
}
