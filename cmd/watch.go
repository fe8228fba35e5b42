package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kwatters/hilex/internal/highlight"
	"github.com/kwatters/hilex/internal/pubsub"
	"github.com/kwatters/hilex/internal/watch"
)

var watchTrace bool

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Watch a file and report incremental re-lexes",
	Long: `watch lexes the file, then follows it on disk: every change re-lexes
only the suffix starting at the first modified line and prints what was
done. Useful for observing the incremental engine at work.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchTrace, "trace", false,
		"export OpenTelemetry spans for each lex run to stdout")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if watchTrace {
		cfg.Watch.Trace = true
	}
	hl, err := highlight.New(cfg)
	if err != nil {
		return err
	}

	store := openStateDB()
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	svc, err := watch.NewService(hl, cfg, store)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Stop() }()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	events := svc.Events().Subscribe(ctx)
	doc, err := svc.Watch(args[0])
	if err != nil {
		return err
	}
	svc.Start()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s (%d lines)\n", args[0], doc.LineCount())
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Type != pubsub.LexedEvent {
				continue
			}
			u := event.Payload
			fmt.Fprintf(out, "%s relexed from line %d (%d lines, %d bytes)\n",
				u.Path, u.FromLine+1, u.Doc.LineCount(), u.Doc.Length())
		}
	}
}
