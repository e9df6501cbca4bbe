package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"legisync/internal/ledger"
	"legisync/internal/logging"
)

func newLedgerCommand(cmdCtx *commandContext) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show processed-item ledger contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			led := ledger.New(cfg, logging.NewNop())
			state, err := led.Load(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ledger: %s\n", cfg.Paths.LedgerPath)
			fmt.Fprintf(out, "House: %d processed, Senate: %d processed\n\n", len(state.House), len(state.Senate))

			var rows [][]string
			appendEntries := func(source string, entries []ledger.Entry) {
				start := 0
				if recent > 0 && len(entries) > recent {
					start = len(entries) - recent
				}
				for _, entry := range entries[start:] {
					rows = append(rows, []string{source, entry.Committee, entry.RecordingDate, entry.Filename})
				}
			}
			appendEntries("house", state.House)
			appendEntries("senate", state.Senate)

			if len(rows) == 0 {
				fmt.Fprintln(out, "No items processed yet.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Source", "Committee", "Recorded", "Filename"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 10, "Entries to show per source (0 for all)")
	return cmd
}
