package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/Xu-Jack11/aipartner/internal/knowledge"
	"github.com/Xu-Jack11/aipartner/internal/websearch"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base or the web",
	Long:  `Runs the same lookups the knowledge-base and web-search tools use and prints the matches.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 3, "maximum number of results")
	searchCmd.Flags().Bool("web", false, "search the web instead of the knowledge base")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	limit, _ := cmd.Flags().GetInt("limit")
	web, _ := cmd.Flags().GetBool("web")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if web {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		results, err := newWebSearch(cfg).Search(context.Background(), query, limit)
		if err != nil {
			return fmt.Errorf("web search failed: %w", err)
		}
		if jsonOutput {
			if results == nil {
				results = []websearch.Result{}
			}
			return printJSON(results)
		}
		printWebResults(results)
		return nil
	}

	matches := knowledge.Default().Search(query, limit)
	if jsonOutput {
		if matches == nil {
			matches = []knowledge.Match{}
		}
		return printJSON(matches)
	}
	printMatches(matches)
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printMatches(matches []knowledge.Match) {
	if len(matches) == 0 {
		fmt.Println("No results found.")
		return
	}
	fmt.Printf("Found %d results:\n\n", len(matches))
	for i, m := range matches {
		fmt.Printf("  %d. [%.2f] %s\n", i+1, m.Score, m.Entry.Title)
		fmt.Printf("     %s\n\n", truncate(m.Entry.Summary, 60))
	}
}

func printWebResults(results []websearch.Result) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("  %d. %s\n", i+1, r.Title)
		fmt.Printf("     %s\n", r.URL)
		fmt.Printf("     %s\n\n", truncate(r.Snippet, 120))
	}
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
