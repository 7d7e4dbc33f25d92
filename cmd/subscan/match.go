package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Dry-run the series matcher against one transaction",
		Long: `Run a single hypothetical transaction through the series matcher without
touching the database. Useful for checking why a transaction did or did
not link to a series.`,
		RunE: runMatch,
	}

	cmd.Flags().String("description", "", "Transaction description")
	cmd.Flags().String("merchant", "", "Merchant name, if known")
	cmd.Flags().Float64("amount", 0, "Signed amount (negative = expense)")
	cmd.Flags().String("account", "", "Account ID")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runMatch(cmd *cobra.Command, _ []string) error {
	description, _ := cmd.Flags().GetString("description")
	merchant, _ := cmd.Flags().GetString("merchant")
	amount, _ := cmd.Flags().GetFloat64("amount")
	account, _ := cmd.Flags().GetString("account")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	matcher := newMatcher(store)
	series, err := matcher.MatchTransaction(ctx, description, merchant, amount, account)
	if err != nil {
		return fmt.Errorf("failed to match: %w", err)
	}

	if series == nil {
		fmt.Println("No matching series.")
		return nil
	}

	fmt.Printf("Matched series %q (%s), expected amount %.2f %s\n",
		series.Name, series.ID, series.Amount, series.Currency)
	return nil
}
