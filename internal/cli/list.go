package cli

import (
	"context"

	"github.com/spf13/cobra"

	"omniquery/internal/app"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ingested files",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		files, err := a.Store.ListFiles(ctx)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			cmd.Println("No files in the knowledge base.")
			return nil
		}

		for _, f := range files {
			status := "✗"
			if f.Processed {
				status = "✓"
			}
			cmd.Printf("%s [%d] %s (%s, %d bytes, %s)\n",
				status, f.ID, f.Filename, f.FileType, f.FileSize,
				f.UploadDate.Format("2006-01-02 15:04"))
		}
		return nil
	})
}
