package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"omniquery/internal/app"
	"omniquery/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat over the knowledge base",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		if a.Engine == nil {
			return errors.New("no generation backend configured; set GEMINI_API_KEY")
		}
		p := tea.NewProgram(tui.New(a.Engine), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("chat ui: %w", err)
		}
		return nil
	})
}
