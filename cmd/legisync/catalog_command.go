package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"legisync/internal/catalog"
)

func newCatalogCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:       "catalog [house|senate]",
		Short:     "List currently discoverable videos",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"house", "senate"},
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

			listers := newListers(cfg, logger)
			if len(args) == 1 {
				filtered := listers[:0]
				for _, lister := range listers {
					if lister.Source() == catalog.Source(args[0]) {
						filtered = append(filtered, lister)
					}
				}
				listers = filtered
			}

			var rows [][]string
			for _, lister := range listers {
				items, err := lister.List(ctx)
				if err != nil {
					return fmt.Errorf("list %s catalog: %w", lister.Source(), err)
				}
				for _, item := range items {
					if limit > 0 && len(rows) >= limit {
						break
					}
					rows = append(rows, []string{
						item.Source.String(),
						item.Committee,
						item.RecordingDate,
						item.Filename,
						item.UploadedAt,
					})
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Source", "Committee", "Recorded", "Filename", "Uploaded"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintln(out, strconv.Itoa(len(rows))+" item(s)")
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Max items to display (0 for all)")
	return cmd
}
