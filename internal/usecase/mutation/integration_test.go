package mutation_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/fakeapi"
	"listkeeper/internal/infra/remote"
	"listkeeper/internal/usecase/mutation"
	"listkeeper/internal/usecase/snapshot"
)

// TestEndToEnd_AgainstFakeService drives the coordinator through the HTTP
// adapter against the in-memory service.
func TestEndToEnd_AgainstFakeService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := fakeapi.NewStore()
	store.CreateUser(entity.User{Name: "fer", Password: "9920"})
	srv := httptest.NewServer(fakeapi.NewRouter(store, logger))
	t.Cleanup(srv.Close)

	client, err := remote.NewClient(remote.Options{
		BaseURL:    srv.URL + fakeapi.APIPrefix,
		HTTPClient: srv.Client(),
		Logger:     logger,
	})
	require.NoError(t, err)

	snaps := snapshot.NewStore(client.Lists(), client.Articles(), logger)
	coord := mutation.NewCoordinator(client.Lists(), client.Articles(), snaps, logger)
	ctx := context.Background()

	groceries, err := coord.CreateList(ctx, fer, "Groceries", jan15())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", groceries.CreationDate)
	assert.Equal(t, int64(1), groceries.OwnerUserID)

	pantry, err := coord.CreateList(ctx, fer, "Pantry", jan15())
	require.NoError(t, err)

	milk, err := coord.CreateArticle(ctx, fer, mutation.ArticleDraft{
		Name:    "Milk",
		Content: "2 liters",
		ListIDs: []int64{groceries.ID, pantry.ID},
	})
	require.NoError(t, err)
	require.Len(t, snaps.MembersOf(groceries.ID), 1)
	require.Len(t, snaps.MembersOf(pantry.ID), 1)

	renamed, err := coord.RenameArticle(ctx, fer, milk.ID, "Oat milk", "")
	require.NoError(t, err)
	assert.Equal(t, []int64{groceries.ID, pantry.ID}, renamed.ListIDs)

	_, err = coord.RenameList(ctx, fer, pantry.ID, "Cupboard")
	require.NoError(t, err)

	require.NoError(t, coord.DeleteList(ctx, fer, groceries.ID))

	snap := snaps.Snapshot()
	require.Len(t, snap.Lists, 1)
	assert.Equal(t, "Cupboard", snap.Lists[0].Name)
	got, ok := snap.Article(milk.ID)
	require.True(t, ok)
	assert.Equal(t, "Oat milk", got.Name)
	assert.Equal(t, []int64{pantry.ID}, got.ListIDs)
	assert.Empty(t, snaps.MembersOf(groceries.ID))

	// the server rejects a list that does not exist; the message comes through verbatim
	_, err = coord.CreateArticle(ctx, fer, mutation.ArticleDraft{Name: "Ghost", ListIDs: []int64{999}})
	require.Error(t, err)
	assert.Equal(t, mutation.OutcomeRemoteFailed, mutation.Classify(err))
	assert.Contains(t, err.Error(), "HTTP 400:")

	require.NoError(t, coord.DeleteArticle(ctx, fer, milk.ID))
	assert.Empty(t, snaps.Snapshot().Articles)
}
