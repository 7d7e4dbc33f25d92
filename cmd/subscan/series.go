package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func seriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Manage confirmed recurring series",
	}

	cmd.AddCommand(seriesListCmd())
	cmd.AddCommand(seriesDeactivateCmd())
	return cmd
}

func seriesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recurring series",
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			series, err := store.ListSeries(ctx, all)
			if err != nil {
				return fmt.Errorf("failed to list series: %w", err)
			}
			if len(series) == 0 {
				fmt.Println("No recurring series found.")
				return nil
			}

			fmt.Printf("%-36s %-25s %-12s %10s %-8s\n", "ID", "NAME", "FREQUENCY", "AMOUNT", "ACTIVE")
			for _, s := range series {
				active := "yes"
				if !s.IsActive {
					active = "no"
				}
				fmt.Printf("%-36s %-25s %-12s %10.2f %-8s\n",
					s.ID,
					truncateName(s.Name, 25),
					s.Frequency,
					s.Amount,
					active)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include deactivated series")
	return cmd
}

func seriesDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <series-id>",
		Short: "Deactivate a recurring series",
		Long: `Deactivate a recurring series. Transactions already linked keep their
link; the series simply stops matching new transactions and stops
suppressing re-detection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeactivateSeries(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to deactivate series: %w", err)
			}

			fmt.Printf("Deactivated series %s.\n", args[0])
			return nil
		},
	}
}
