package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
	"github.com/syllogic-ai/personal-finance-app/internal/recurring"
)

func detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect recurring payment patterns",
		Long: `Scan unlinked expense transactions for recurring payment patterns and
save the results as pending suggestions for review.

Already-detected pending suggestions and confirmed series suppress
re-detection of the same payment.`,
		RunE: runDetect,
	}

	cmd.Flags().Int("lookback", 0, "Days of history to scan (default from config)")
	cmd.Flags().Bool("dry-run", false, "Print patterns without saving suggestions")
	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	lookback, _ := cmd.Flags().GetInt("lookback")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := detectionOptions()
	if lookback > 0 {
		opts.LookbackDays = lookback
	}

	since := time.Now().AddDate(0, 0, -opts.LookbackDays)
	transactions, err := store.GetUnlinkedExpenses(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(transactions) == 0 {
		fmt.Println("No unlinked expense transactions to scan.")
		return nil
	}

	activeSeries, err := store.ListActiveSeries(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load series: %w", err)
	}
	pending, err := store.ListSuggestions(ctx, model.SuggestionPending)
	if err != nil {
		return fmt.Errorf("failed to load pending suggestions: %w", err)
	}

	slog.Info("Scanning for recurring patterns",
		"transactions", len(transactions),
		"lookback_days", opts.LookbackDays,
		"active_series", len(activeSeries),
		"pending_suggestions", len(pending))

	detector := recurring.NewDetector(opts, nil, nil)
	patterns := detector.DetectPatterns(transactions, activeSeries, pending)

	if len(patterns) == 0 {
		fmt.Println("No new recurring patterns found.")
		return nil
	}

	printPatterns(patterns)

	if dryRun {
		fmt.Println("\nDry run - no suggestions saved.")
		return nil
	}

	bar := progressbar.NewOptions(len(patterns),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Saving suggestions..."),
	)

	suggestions := make([]model.Suggestion, 0, len(patterns))
	for _, p := range patterns {
		suggestions = append(suggestions, model.Suggestion{
			SuggestedName:         p.SuggestedName,
			SuggestedMerchant:     p.SuggestedMerchant,
			SuggestedAmount:       p.SuggestedAmount,
			Currency:              p.Currency,
			Frequency:             p.Frequency,
			Confidence:            p.Confidence,
			MatchCount:            p.MatchCount,
			AvgIntervalDays:       p.AvgIntervalDays,
			MatchedTransactionIDs: p.MatchedTransactionIDs,
			Status:                model.SuggestionPending,
		})
		_ = bar.Add(1)
	}

	if err := store.SaveSuggestions(ctx, suggestions); err != nil {
		return fmt.Errorf("failed to save suggestions: %w", err)
	}

	fmt.Printf("\nSaved %d pending suggestions. Review them with 'subscan suggestions list'.\n", len(suggestions))
	return nil
}

func printPatterns(patterns []model.DetectedPattern) {
	fmt.Printf("\nFound %d recurring pattern(s):\n\n", len(patterns))
	fmt.Printf("%-30s %-12s %10s %6s %6s\n", "NAME", "FREQUENCY", "AMOUNT", "COUNT", "CONF")
	for _, p := range patterns {
		fmt.Printf("%-30s %-12s %10.2f %6d %5d%%\n",
			truncateName(p.SuggestedName, 30),
			p.Frequency,
			p.SuggestedAmount,
			p.MatchCount,
			p.Confidence)
	}
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
