package cli

import (
	"context"

	"github.com/spf13/cobra"

	"omniquery/internal/app"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past queries and their answers",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		entries, err := a.Store.ListQueries(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("No query history.")
			return nil
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}

		for _, e := range entries {
			cmd.Printf("[%s] Q: %s\n", e.Timestamp.Format("2006-01-02 15:04"), e.QueryText)
			cmd.Printf("A: %s\n\n", e.ResponseText)
		}
		return nil
	})
}
