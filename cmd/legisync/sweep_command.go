package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newSweepCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one catalog sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := newCLILogger(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			coordinator, closer, err := newCoordinator(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closer()

			if limit <= 0 {
				limit = cfg.Workflow.PerSourceLimit
			}
			result, err := coordinator.Run(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.LockSkipped {
				fmt.Fprintln(out, "Another sweep is already running; nothing to do.")
				return nil
			}

			rows := make([][]string, 0, len(result.Sources))
			for _, source := range result.Sources {
				status := "ok"
				if source.Err != nil {
					status = source.Err.Error()
				}
				var processed, skipped, failed int
				for _, outcome := range source.Outcomes {
					switch {
					case outcome.Succeeded():
						processed++
					case outcome.Err != nil:
						failed++
					default:
						skipped++
					}
				}
				rows = append(rows, []string{
					source.Source.String(),
					fmt.Sprintf("%d", source.Listed),
					fmt.Sprintf("%d", processed),
					fmt.Sprintf("%d", skipped),
					fmt.Sprintf("%d", failed),
					status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Source", "Listed", "Processed", "Skipped", "Failed", "Listing"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Sweep %s finished in %s\n", result.SweepID, result.Duration.Round(10*time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max new items per source (defaults to workflow.per_source_limit)")
	return cmd
}
