package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/tui"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Interactive retrieval and verification session",
	Long: `Opens a terminal UI against the loaded index. Type a query and press
Enter to retrieve reference material; press Tab to switch to verification
mode and check coverage for a learning objective instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := buildService()
		if err != nil {
			return err
		}
		defer func() { _ = svc.Shutdown() }()

		m := tui.New(svc)
		_, err = tea.NewProgram(m).Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
