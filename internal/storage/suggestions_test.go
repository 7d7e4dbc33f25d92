package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllogic-ai/personal-finance-app/internal/common"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

func pendingSuggestion(name string, confidence int) model.Suggestion {
	return model.Suggestion{
		SuggestedName:         name,
		SuggestedMerchant:     name,
		SuggestedAmount:       15.99,
		Currency:              "EUR",
		Frequency:             "monthly",
		Confidence:            confidence,
		MatchCount:            3,
		AvgIntervalDays:       30,
		MatchedTransactionIDs: []string{"t1", "t2", "t3"},
	}
}

func TestSQLiteStorage_SaveAndListSuggestions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	suggestions := []model.Suggestion{
		pendingSuggestion("Netflix", 85),
		pendingSuggestion("Spotify", 92),
	}

	require.NoError(t, store.SaveSuggestions(ctx, suggestions))
	assert.NotEmpty(t, suggestions[0].ID)
	assert.Equal(t, model.SuggestionPending, suggestions[0].Status)

	got, err := store.ListSuggestions(ctx, model.SuggestionPending)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Highest confidence first.
	assert.Equal(t, "Spotify", got[0].SuggestedName)
	assert.Equal(t, "Netflix", got[1].SuggestedName)
	assert.Equal(t, []string{"t1", "t2", "t3"}, got[0].MatchedTransactionIDs)

	// Saving nothing is a no-op.
	require.NoError(t, store.SaveSuggestions(ctx, nil))
}

func TestSQLiteStorage_SaveSuggestionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	err := store.SaveSuggestions(ctx, []model.Suggestion{{SuggestedAmount: 10}})
	assert.ErrorIs(t, err, ErrInvalidSuggestion)

	bad := pendingSuggestion("Netflix", 150)
	err = store.SaveSuggestions(ctx, []model.Suggestion{bad})
	assert.ErrorIs(t, err, ErrInvalidSuggestion)
}

func TestSQLiteStorage_UpdateSuggestionStatus(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	suggestions := []model.Suggestion{pendingSuggestion("Netflix", 85)}
	require.NoError(t, store.SaveSuggestions(ctx, suggestions))
	id := suggestions[0].ID

	require.NoError(t, store.UpdateSuggestionStatus(ctx, id, model.SuggestionAccepted))

	got, err := store.GetSuggestionByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.SuggestionAccepted, got.Status)

	// Accepted suggestions leave the pending list.
	pending, err := store.ListSuggestions(ctx, model.SuggestionPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, store.UpdateSuggestionStatus(ctx, id, "bogus"), ErrInvalidStatus)
	assert.ErrorIs(t, store.UpdateSuggestionStatus(ctx, "missing", model.SuggestionDismissed), common.ErrNotFound)
}
