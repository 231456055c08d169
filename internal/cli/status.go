package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := buildService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Shutdown() }()

		st := svc.Status()
		fmt.Printf("Data directory:  %s\n", cfg.DataDir)
		fmt.Printf("Index file:      %s\n", filepath.Join(cfg.DataDir, "vector_index"))
		fmt.Printf("Chunk file:      %s\n", filepath.Join(cfg.DataDir, "chunks.json"))
		fmt.Printf("Embedder:        %s\n", st.Embedder)
		fmt.Printf("Dimension:       %d\n", st.Dimension)
		fmt.Printf("Indexed chunks:  %d\n", st.Chunks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
