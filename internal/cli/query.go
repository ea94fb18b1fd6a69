package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"omniquery/internal/app"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about the stored content",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		if a.Engine == nil {
			return errors.New("no generation backend configured; set GEMINI_API_KEY")
		}
		answer, err := a.Engine.Answer(ctx, question)
		if err != nil {
			return err
		}
		cmd.Println(answer)
		return nil
	})
}
