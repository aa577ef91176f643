package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sparktype/blockdown/internal/config"
	"github.com/sparktype/blockdown/internal/logging"
	"github.com/sparktype/blockdown/internal/watcher"
	"github.com/sparktype/blockdown/pkg/blockdown"
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Re-validate block documents as they change",
	Long: `Watch directories for block document changes and re-validate each
changed file, logging structural findings. Without arguments the configured
content scan paths are watched.`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.Content.ScanPaths
	}

	logger := logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	}).WithComponent("watch")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fw, err := watcher.NewFileWatcher(time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.NoBackupFilter)
	fw.AddFilter(watcher.MarkdownFilter)
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted {
				continue
			}
			revalidate(ctx, logger, event.Path)
		}
		return nil
	})

	for _, root := range roots {
		if err := fw.AddRecursive(root); err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "watching for changes", "paths", roots)
	<-ctx.Done()
	return nil
}

// revalidate parses and validates one changed file, logging the outcome.
func revalidate(ctx context.Context, logger logging.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(ctx, err, "read failed", "path", path)
		return
	}

	blocks, err := blockdown.Parse(string(data))
	if err != nil {
		logger.Warn(ctx, err, "parse failed", "path", path)
		return
	}

	result := blockdown.Validate(blocks)
	if !result.IsValid {
		for _, msg := range result.Errors {
			logger.Warn(ctx, nil, "validation finding", "path", path, "finding", msg)
		}
		return
	}
	logger.Info(ctx, "document valid", "path", path, "blocks", len(blocks))
}
