package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

var (
	queryTopK     int
	queryMinScore float64
	queryJSON     bool
)

type queryResult struct {
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
	Subject string  `json:"subject"`
	Heading string  `json:"heading,omitempty"`
	Text    string  `json:"text"`
}

type queryOutput struct {
	Query             string        `json:"query"`
	OverallConfidence float64       `json:"overall_confidence"`
	Results           []queryResult `json:"results"`
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Retrieve reference material for a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := buildService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Shutdown() }()

		rc := svc.RetrieveContext(context.Background(), args[0], queryTopK, queryMinScore)

		if queryJSON {
			out := queryOutput{
				Query:             args[0],
				OverallConfidence: rc.OverallConfidence,
				Results:           make([]queryResult, 0, len(rc.Results)),
			}
			for _, r := range rc.Results {
				out.Results = append(out.Results, queryResult{
					ChunkID: r.Chunk.ChunkID,
					Score:   r.Score,
					Source:  r.Chunk.Source,
					Subject: r.Chunk.Subject,
					Heading: r.Chunk.Heading,
					Text:    r.Chunk.Text,
				})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		printResults(rc)
		return nil
	},
}

func printResults(rc domain.RetrievedContext) {
	if len(rc.Results) == 0 {
		fmt.Println("No matching reference material found.")
		return
	}
	fmt.Printf("Overall confidence: %.3f\n\n", rc.OverallConfidence)
	for i, r := range rc.Results {
		fmt.Printf("%d. [%.3f] %s (%s)\n", i+1, r.Score, r.Chunk.Source, r.Chunk.Subject)
		if r.Chunk.Heading != "" {
			fmt.Printf("   Section: %s\n", r.Chunk.Heading)
		}
		fmt.Printf("   %s\n\n", excerpt(r.Chunk.Text, 240))
	}
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func init() {
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", -1, "minimum similarity score (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(queryCmd)
}
