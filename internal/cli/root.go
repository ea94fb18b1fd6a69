// Package cli implements the omniquery command-line surface on top of the
// same pipelines the HTTP server uses.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"omniquery/internal/app"
	"omniquery/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "omniquery",
	Short: "Multimodal knowledge base with AI-powered querying",
	Long: `Omniquery ingests documents, images, audio, video, and YouTube links
into a local knowledge base and answers questions about the stored content
using Google Gemini.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// withApp loads config, builds the local application, runs fn, and tears
// everything down afterwards.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg := config.LoadConfig()
	application, err := app.NewLocalApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(ctx, application)
}
