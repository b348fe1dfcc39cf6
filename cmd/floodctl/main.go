// Command floodctl scores readings, queries a prediction endpoint, watches
// the alert topic and applies database migrations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

const appName = "floodctl"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flood risk scoring and alert tooling",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(
		newScoreCmd(),
		newPredictCmd(),
		newPresetsCmd(),
		newFieldsCmd(),
		newWatchCmd(),
		newMigrateCmd(),
	)
	return root
}
