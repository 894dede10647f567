package cli

import (
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new documents",
	Long: `Monitors the directory for new or changed documents and ingests each
one once it stops changing. Runs until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var dir string
	if cfg != nil {
		dir = cfg.Watch.Dir
	}
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no directory given and watch.dir not configured")
	}

	opts := []watcher.Option{}
	if cfg != nil && cfg.Watch.DebounceMillis > 0 {
		opts = append(opts, watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMillis)*time.Millisecond))
	}

	w, err := watcher.New(opts...)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths, err := w.Watch(ctx, dir)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)
	for path := range paths {
		if err := ingestFile(cmd, path); err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
		}
	}
	return nil
}
