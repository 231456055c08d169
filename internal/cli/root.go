package cli

import (
	"fmt"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "labster-rag",
	Short: "Reference-material retrieval and verification for quiz generation",
	Long: `labster-rag maintains a persistent vector index over chunked textbook
content and answers two questions about a natural-language learning
objective: which reference material is relevant to it, and whether that
material covers it well enough to trust generated content about it.

Ingest documents once, then query or verify as often as needed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("labster-rag v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml, then ~/.config/labster-rag/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func initLogging() {
	log.DefaultLogger.Level = log.InfoLevel
	if verbose {
		log.DefaultLogger.Level = log.DebugLevel
	}
}
