package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"omniquery/internal/app"
)

var (
	clearConfirm     bool
	clearHistoryOnly bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored files and chunks, or just the query history",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearConfirm, "confirm", false, "actually delete the data")
	clearCmd.Flags().BoolVar(&clearHistoryOnly, "history", false, "only clear the query history")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearConfirm {
		return errors.New("refusing to delete without --confirm")
	}

	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		if clearHistoryOnly {
			if err := a.Store.ClearQueryHistory(ctx); err != nil {
				return err
			}
			cmd.Println("Query history cleared.")
			return nil
		}
		if err := a.Processor.Clear(ctx); err != nil {
			return err
		}
		cmd.Println("Knowledge base cleared.")
		return nil
	})
}
