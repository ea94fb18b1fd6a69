package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"omniquery/internal/app"
	"omniquery/internal/core/ingest"
)

var processConcurrency int

var processCmd = &cobra.Command{
	Use:   "process [files or YouTube URLs...]",
	Short: "Ingest files or YouTube videos into the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().IntVarP(&processConcurrency, "concurrency", "c", 4, "number of inputs processed in parallel")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(processConcurrency)

		results := make([]*ingest.Result, len(args))
		for i, arg := range args {
			g.Go(func() error {
				var (
					res *ingest.Result
					err error
				)
				if ingest.IsYouTubeURL(arg) {
					res, err = a.Processor.ProcessYouTube(gctx, arg)
				} else {
					res, err = a.Processor.ProcessFile(gctx, arg)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i, res := range results {
			if res.Success {
				cmd.Printf("✓ %s\n", res.Message)
			} else {
				cmd.Printf("✗ %s: %s\n", args[i], res.Message)
			}
		}
		return nil
	})
}
