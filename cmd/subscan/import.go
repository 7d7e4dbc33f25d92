package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/syllogic-ai/personal-finance-app/internal/common"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
	"github.com/syllogic-ai/personal-finance-app/internal/ofx"
	"github.com/syllogic-ai/personal-finance-app/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import bank transactions from OFX or QFX files exported from your bank.

Duplicates are skipped by content hash, and new expense transactions are
automatically linked to active recurring series.

Examples:
  # Import a single file
  subscan import ~/Downloads/ing_jan_2025.ofx

  # Import everything from a directory
  subscan import ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("no-link", false, "Skip auto-linking to recurring series")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	noLink, _ := cmd.Flags().GetBool("no-link")
	ctx := cmd.Context()

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return common.NewUserError("no files found to import", nil)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var allTransactions []model.Transaction

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "Failed to parse OFX file", common.Fields{"file": filePath})
			continue
		}

		added := 0
		for _, tx := range transactions {
			if !seen[tx.Hash] {
				seen[tx.Hash] = true
				allTransactions = append(allTransactions, tx)
				added++
			}
		}

		slog.Info("Processed file",
			"file", filepath.Base(filePath),
			"transactions_found", len(transactions),
			"added", added,
			"duplicates", len(transactions)-added)
	}

	if len(allTransactions) == 0 {
		slog.Warn("No transactions found in any file")
		return nil
	}

	inserted, err := store.SaveTransactions(ctx, allTransactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Printf("Imported %d new transactions (%d already known)\n",
		inserted, len(allTransactions)-inserted)

	if noLink {
		return nil
	}

	linked, err := autoLinkTransactions(cmd, store, allTransactions)
	if err != nil {
		return err
	}
	if linked > 0 {
		fmt.Printf("Auto-linked %d transactions to recurring series\n", linked)
	}

	return nil
}

// autoLinkTransactions runs each imported expense through the matcher and
// writes back the series assignments.
func autoLinkTransactions(cmd *cobra.Command, store service.Storage, transactions []model.Transaction) (int, error) {
	ctx := cmd.Context()
	matcher := newMatcher(store)

	bySeries := make(map[string][]string)
	for _, txn := range transactions {
		if !txn.IsExpense() || txn.SeriesID != "" {
			continue
		}

		series, err := matcher.MatchTransaction(ctx, txn.Description, txn.Merchant, txn.Amount, txn.AccountID)
		if err != nil {
			return 0, fmt.Errorf("failed to match transaction %s: %w", txn.ID, err)
		}
		if series == nil {
			continue
		}
		bySeries[series.ID] = append(bySeries[series.ID], txn.ID)
	}

	linked := 0
	for seriesID, ids := range bySeries {
		if err := store.LinkTransactions(ctx, ids, seriesID); err != nil {
			return linked, fmt.Errorf("failed to link transactions: %w", err)
		}
		linked += len(ids)
		slog.Info("Linked transactions to series", "series_id", seriesID, "count", len(ids))
	}

	return linked, nil
}
