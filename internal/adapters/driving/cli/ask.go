package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

var (
	askTopK     int
	askContains []string
	askJSON     bool
	askShowCtx  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the card schema",
	Long: `Answers a natural-language question using retrieved schema context.

The schema is indexed on first use; later questions in the same session
reuse the index. Up to two --contains substrings narrow retrieval to
chunks mentioning them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of schema chunks to retrieve (default 8)")
	askCmd.Flags().StringSliceVarP(&askContains, "contains", "c", nil, "require retrieved chunks to contain a substring (max 2)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output result as JSON")
	askCmd.Flags().BoolVar(&askShowCtx, "show-context", false, "print the retrieved context before the answer")
	rootCmd.AddCommand(askCmd)
}

// askJSONOutput is the --json shape of one answer.
type askJSONOutput struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	opts := domain.AskOptions{
		TopK:     askTopK,
		Contains: askContains,
	}

	started := time.Now()
	result, err := askService.Ask(cmd.Context(), question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if history := openHistory(); history != nil {
		defer history.Close()
		rec := domain.AskRecord{
			Question:     question,
			Answer:       result.Answer,
			ContextBytes: len(result.Context),
			Duration:     time.Since(started),
		}
		if err := history.Save(cmd.Context(), rec); err != nil {
			// History failures never mask the answer.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: saving history: %v\n", err)
		}
	}

	if askJSON {
		data, err := json.MarshalIndent(askJSONOutput{
			Question: question,
			Answer:   result.Answer,
			Sources:  result.Documents,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if askShowCtx {
		cmd.Println("Context:")
		cmd.Println(result.Context)
		cmd.Println()
	}
	cmd.Println(result.Answer)
	return nil
}
