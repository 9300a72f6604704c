package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search stored conditions",
	Long: `Embeds the query and returns the stored conditions whose
disease and symptom text is closest by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit,
		fmt.Sprintf("maximum number of results (max %d)", domain.MaxSearchLimit))
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		if err := ensureServices(cmd.Context(), false); err != nil {
			return err
		}
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.Search(cmd.Context(), args[0], domain.NormalizeSearchLimit(searchLimit))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results)
	return nil
}

// searchResultJSON is the JSON shape of one search result.
type searchResultJSON struct {
	ID      string  `json:"_id"`
	Disease string  `json:"disease"`
	Symptom string  `json:"symptom"`
	Score   float64 `json:"score"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.ConditionMatch) error {
	out := make([]searchResultJSON, len(results))
	for i, r := range results {
		out[i] = searchResultJSON{ID: r.ID, Disease: r.Label, Symptom: r.Description, Score: r.Score}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.ConditionMatch) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Label, r.Score)
		cmd.Printf("      %s\n", r.Description)
		cmd.Println()
	}
}
