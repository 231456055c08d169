package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/document"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
	"github.com/JuanNavarr0/labster-quiz-generator/internal/vectorstore"
)

var ingestRebuild bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file|dir|glob...]",
	Short: "Chunk, embed and index reference documents",
	Long: `Extracts text from PDF, Markdown and plain-text files, splits it into
heading-annotated chunks and adds them to the vector index. With --rebuild
the index is discarded and built from scratch; otherwise new chunks are
appended behind the existing entries.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := buildService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Shutdown() }()

		files, err := document.Resolve(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no supported documents found (pdf, txt, md)")
		}
		fmt.Printf("Loading %d document(s)...\n", len(files))

		ctx := context.Background()
		docs, failed := document.LoadAll(ctx, files, cfg.Ingest.Workers)
		if len(docs) == 0 {
			return fmt.Errorf("all %d documents failed to load", failed)
		}

		report, err := svc.Ingest(ctx, docs, ingestRebuild, func(p domain.Progress) {
			fmt.Printf("\rEmbedding chunks %d/%d", p.Done, p.Total)
		})
		fmt.Println()
		if err != nil && !errors.Is(err, vectorstore.ErrNotDurable) {
			return err
		}

		fmt.Printf("Documents ingested:  %d (failed: %d)\n", report.Documents, report.FailedDocuments+failed)
		fmt.Printf("Chunks indexed:      %d (failed: %d)\n", report.ChunksAdded, report.FailedChunks)
		fmt.Printf("Index size:          %d chunks\n", report.IndexSize)
		fmt.Printf("Elapsed:             %s\n", report.Elapsed.Round(10*time.Millisecond))
		if !report.Durable {
			fmt.Fprintln(os.Stderr, "WARNING: index updated in memory but could not be saved; changes are lost on restart")
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "discard the existing index and rebuild from scratch")
	rootCmd.AddCommand(ingestCmd)
}
