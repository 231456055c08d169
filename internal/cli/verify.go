package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyJSON bool

var verifyCmd = &cobra.Command{
	Use:   "verify <learning objective>",
	Short: "Verify reference coverage for a learning objective",
	Long: `Checks whether the indexed reference material covers a learning objective
well enough to trust generated content about it. The verdict has three
tiers: fully verified, verified with a limited-material warning, and not
verified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := buildService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Shutdown() }()

		result := svc.VerifyScientificContent(context.Background(), args[0])

		if verifyJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if result.IsVerified {
			fmt.Printf("VERIFIED (confidence %.3f)\n", result.ConfidenceScore)
		} else {
			fmt.Printf("NOT VERIFIED (confidence %.3f)\n", result.ConfidenceScore)
		}
		if result.WarningMessage != "" {
			fmt.Printf("Warning: %s\n", result.WarningMessage)
		}
		if len(result.RelevantSubjects) > 0 {
			fmt.Printf("Subjects: %v\n", result.RelevantSubjects)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "emit JSON")
	rootCmd.AddCommand(verifyCmd)
}
