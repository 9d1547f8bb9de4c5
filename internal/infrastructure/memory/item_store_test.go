package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/infrastructure/memory"
)

func seedItem(t *testing.T, s *memory.ItemStore, voteCount int) domain.Item {
	t.Helper()
	it := domain.Item{ID: uuid.New(), Title: "seed", OwnerID: uuid.New(), VoteCount: voteCount}
	require.NoError(t, s.Create(context.Background(), it))
	got, err := s.Get(context.Background(), it.ID)
	require.NoError(t, err)
	return got
}

func TestItemStore_UpdateIsCompareAndSwap(t *testing.T) {
	s := memory.NewItemStore()
	it := seedItem(t, s, 0)
	assert.Equal(t, uint64(1), it.Version)

	// Two readers hold the same version. First writer wins.
	first := it
	second := it

	first.Title = "first"
	require.NoError(t, s.Update(context.Background(), first))

	second.Title = "second"
	err := s.Update(context.Background(), second)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	got, err := s.Get(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, uint64(2), got.Version)

	// A fresh read carries the new version and commits.
	got.Title = "third"
	require.NoError(t, s.Update(context.Background(), got))
}

func TestItemStore_UpdateMissing(t *testing.T) {
	s := memory.NewItemStore()
	err := s.Update(context.Background(), domain.Item{ID: uuid.New(), Version: 1})
	assert.True(t, domain.Is(err, "item_not_found"))
}

func TestItemStore_ListOrdersByVoteCount(t *testing.T) {
	s := memory.NewItemStore()
	seedItem(t, s, 1)
	seedItem(t, s, 5)
	seedItem(t, s, 3)

	out, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 5, out[0].VoteCount)
	assert.Equal(t, 3, out[1].VoteCount)
	assert.Equal(t, 1, out[2].VoteCount)
}

func TestItemStore_ListByOwner(t *testing.T) {
	s := memory.NewItemStore()
	owner := uuid.New()

	mine := domain.Item{ID: uuid.New(), OwnerID: owner}
	other := domain.Item{ID: uuid.New(), OwnerID: uuid.New()}
	require.NoError(t, s.Create(context.Background(), mine))
	require.NoError(t, s.Create(context.Background(), other))

	out, err := s.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, mine.ID, out[0].ID)
}

func TestItemStore_StoredStateDoesNotAliasCaller(t *testing.T) {
	s := memory.NewItemStore()
	voter := uuid.New()

	it := domain.Item{ID: uuid.New(), Votes: []domain.Vote{{VoterID: voter, Value: 1}}}
	require.NoError(t, s.Create(context.Background(), it))

	it.Votes[0].Value = -1

	got, err := s.Get(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes[0].Value)
}

func TestItemStore_Delete(t *testing.T) {
	s := memory.NewItemStore()
	it := seedItem(t, s, 0)

	require.NoError(t, s.Delete(context.Background(), it.ID))
	err := s.Delete(context.Background(), it.ID)
	assert.True(t, domain.Is(err, "item_not_found"))
}
