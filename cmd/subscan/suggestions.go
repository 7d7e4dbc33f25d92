package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

func suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Review detected recurring payment suggestions",
	}

	cmd.AddCommand(suggestionsListCmd())
	cmd.AddCommand(suggestionsAcceptCmd())
	cmd.AddCommand(suggestionsDismissCmd())
	return cmd
}

func suggestionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List suggestions awaiting review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			status := model.SuggestionPending
			if all {
				status = ""
			}

			suggestions, err := store.ListSuggestions(ctx, status)
			if err != nil {
				return fmt.Errorf("failed to list suggestions: %w", err)
			}
			if len(suggestions) == 0 {
				fmt.Println("No suggestions found. Run 'subscan detect' first.")
				return nil
			}

			fmt.Printf("%-36s %-25s %-12s %10s %6s %-9s\n", "ID", "NAME", "FREQUENCY", "AMOUNT", "CONF", "STATUS")
			for _, s := range suggestions {
				fmt.Printf("%-36s %-25s %-12s %10.2f %5d%% %-9s\n",
					s.ID,
					truncateName(s.SuggestedName, 25),
					s.Frequency,
					s.SuggestedAmount,
					s.Confidence,
					s.Status)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Include accepted and dismissed suggestions")
	return cmd
}

func suggestionsAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <suggestion-id>",
		Short: "Accept a suggestion, creating a recurring series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			suggestion, err := store.GetSuggestionByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load suggestion: %w", err)
			}
			if suggestion.Status != model.SuggestionPending {
				return fmt.Errorf("suggestion %s is already %s", suggestion.ID, suggestion.Status)
			}

			series := &model.RecurringSeries{
				Name:      suggestion.SuggestedName,
				Merchant:  suggestion.SuggestedMerchant,
				Amount:    suggestion.SuggestedAmount,
				Currency:  suggestion.Currency,
				Frequency: suggestion.Frequency,
				IsActive:  true,
			}
			if err := store.CreateSeries(ctx, series); err != nil {
				return fmt.Errorf("failed to create series: %w", err)
			}

			if err := store.LinkTransactions(ctx, suggestion.MatchedTransactionIDs, series.ID); err != nil {
				return fmt.Errorf("failed to link transactions: %w", err)
			}

			if err := store.UpdateSuggestionStatus(ctx, suggestion.ID, model.SuggestionAccepted); err != nil {
				return fmt.Errorf("failed to update suggestion: %w", err)
			}

			slog.Info("Accepted suggestion",
				"suggestion_id", suggestion.ID,
				"series_id", series.ID,
				"linked_transactions", len(suggestion.MatchedTransactionIDs))
			fmt.Printf("Created series %q (%s) and linked %d transactions.\n",
				series.Name, series.ID, len(suggestion.MatchedTransactionIDs))
			return nil
		},
	}
}

func suggestionsDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <suggestion-id>",
		Short: "Dismiss a suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateSuggestionStatus(ctx, args[0], model.SuggestionDismissed); err != nil {
				return fmt.Errorf("failed to dismiss suggestion: %w", err)
			}

			fmt.Printf("Dismissed suggestion %s. It can be re-detected on the next run.\n", args[0])
			return nil
		},
	}
}
