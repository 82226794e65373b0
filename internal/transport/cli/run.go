package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"transfer_scanner/internal/application"
)

func newRunCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan every search filter, record deals and reconcile the deal file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return application.Scan(cmd.Context(), envFrom(cmd), interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "repeat the run with this interval until interrupted (0 runs once)")

	return cmd
}

func newReconcileCommand() *cobra.Command {
	var freshMinutes int

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Deduplicate, expire and sort today's deal file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := application.Reconcile(cmd.Context(), envFrom(cmd), time.Duration(freshMinutes)*time.Minute)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "kept %d, removed %d, released %d\n", result.Kept, result.Removed, result.Released)

			return nil
		},
	}

	cmd.Flags().IntVar(&freshMinutes, "fresh-minutes", 0, "also drop deals recorded more than this many minutes ago")

	return cmd
}
