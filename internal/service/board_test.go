package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashboard/board-service/internal/audit"
	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/infrastructure/memory"
	"github.com/flashboard/board-service/internal/service"
)

func newBoardFixture() (*service.BoardService, *memory.ItemStore, *memory.Publisher) {
	store := memory.NewItemStore()
	pub := memory.NewPublisher()
	svc := service.NewBoardService(store, pub, audit.New(zerolog.Nop()))
	return svc, store, pub
}

func validCreateInput() service.CreateItemInput {
	return service.CreateItemInput{
		Title:      "Street food market",
		Category:   "Announcement",
		ExpiryDate: time.Now().Add(2 * time.Hour),
	}
}

func validEventInput(limit int) service.CreateItemInput {
	in := validCreateInput()
	in.Title = "Rooftop concert"
	in.Category = domain.CategoryEvent
	in.MemberLimit = limit
	return in
}

func TestCreateItem_DefaultsBirthdateToNow(t *testing.T) {
	svc, _, _ := newBoardFixture()

	it, err := svc.CreateItem(context.Background(), uuid.New(), validCreateInput())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), it.BirthDate, 2*time.Second)
	assert.Equal(t, 0, it.VoteCount)
	assert.Empty(t, it.Members)
}

func TestCreateItem_EventEnrollsCreator(t *testing.T) {
	svc, _, pub := newBoardFixture()
	owner := uuid.New()

	it, err := svc.CreateItem(context.Background(), owner, validEventInput(5))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{owner}, it.Members)
	assert.Equal(t, 5, it.MemberLimit)

	events := pub.Recorded()
	require.Len(t, events, 1)
	assert.Equal(t, "board.item.created", events[0].RoutingKey)
}

func TestCreateItem_RejectsBadWindow(t *testing.T) {
	svc, _, _ := newBoardFixture()

	in := validCreateInput()
	in.BirthDate = time.Now().Add(-time.Hour)
	_, err := svc.CreateItem(context.Background(), uuid.New(), in)
	assert.True(t, domain.Is(err, "invalid_window"))

	in = validCreateInput()
	in.ExpiryDate = time.Now().Add(25 * time.Hour)
	_, err = svc.CreateItem(context.Background(), uuid.New(), in)
	assert.True(t, domain.Is(err, "invalid_window"))
}

func TestUpdateItem_OwnerOnly(t *testing.T) {
	svc, _, _ := newBoardFixture()
	owner := uuid.New()

	it, err := svc.CreateItem(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	upd := service.UpdateItemInput{
		Title:      "Renamed",
		BirthDate:  time.Now().Add(time.Hour),
		ExpiryDate: time.Now().Add(3 * time.Hour),
	}

	_, err = svc.UpdateItem(context.Background(), uuid.New(), it.ID, upd)
	assert.True(t, domain.Is(err, "not_owner"))

	got, err := svc.UpdateItem(context.Background(), owner, it.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestDeleteItem(t *testing.T) {
	svc, store, _ := newBoardFixture()
	owner := uuid.New()

	it, err := svc.CreateItem(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	err = svc.DeleteItem(context.Background(), uuid.New(), it.ID)
	assert.True(t, domain.Is(err, "not_owner"))

	require.NoError(t, svc.DeleteItem(context.Background(), owner, it.ID))

	_, err = store.Get(context.Background(), it.ID)
	assert.True(t, domain.Is(err, "item_not_found"))
}

func TestCastVote_TallyAlwaysMatchesVotes(t *testing.T) {
	svc, store, _ := newBoardFixture()
	it, err := svc.CreateItem(context.Background(), uuid.New(), validCreateInput())
	require.NoError(t, err)

	alice, bob := uuid.New(), uuid.New()

	res, err := svc.CastVote(context.Background(), it.ID, alice, domain.PolarityUp)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, 1, res.VoteCount)

	// Re-voting the same polarity is a no-op on the tally.
	res, err = svc.CastVote(context.Background(), it.ID, alice, domain.PolarityUp)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, 1, res.VoteCount)

	// Flipping polarity overwrites, it never stacks.
	res, err = svc.CastVote(context.Background(), it.ID, alice, domain.PolarityDown)
	require.NoError(t, err)
	assert.True(t, res.Updated)
	assert.Equal(t, -1, res.VoteCount)

	res, err = svc.CastVote(context.Background(), it.ID, bob, domain.PolarityUp)
	require.NoError(t, err)
	assert.False(t, res.Updated)
	assert.Equal(t, 0, res.VoteCount)

	got, err := store.Get(context.Background(), it.ID)
	require.NoError(t, err)
	assert.Len(t, got.Votes, 2)
	sum := 0
	for _, v := range got.Votes {
		sum += v.Value
	}
	assert.Equal(t, sum, got.VoteCount)
}

func TestCastVote_MissingItem(t *testing.T) {
	svc, _, _ := newBoardFixture()
	_, err := svc.CastVote(context.Background(), uuid.New(), uuid.New(), domain.PolarityUp)
	assert.True(t, domain.Is(err, "item_not_found"))
}

func TestJoin_Errors(t *testing.T) {
	svc, _, _ := newBoardFixture()
	owner := uuid.New()

	plain, err := svc.CreateItem(context.Background(), owner, validCreateInput())
	require.NoError(t, err)

	// A plain announcement is not joinable.
	err = svc.Join(context.Background(), plain.ID, uuid.New())
	assert.True(t, domain.Is(err, "event_not_found"))

	// Neither is an unknown id.
	err = svc.Join(context.Background(), uuid.New(), uuid.New())
	assert.True(t, domain.Is(err, "event_not_found"))

	event, err := svc.CreateItem(context.Background(), owner, validEventInput(2))
	require.NoError(t, err)

	// The creator is already enrolled.
	err = svc.Join(context.Background(), event.ID, owner)
	assert.True(t, domain.Is(err, "already_member"))

	member := uuid.New()
	require.NoError(t, svc.Join(context.Background(), event.ID, member))

	// Limit 2 is now reached.
	err = svc.Join(context.Background(), event.ID, uuid.New())
	assert.True(t, domain.Is(err, "event_full"))
}

func TestJoin_OverloadBypassesLimit(t *testing.T) {
	svc, _, _ := newBoardFixture()
	in := validEventInput(1)
	in.AllowOverload = true

	event, err := svc.CreateItem(context.Background(), uuid.New(), in)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Join(context.Background(), event.ID, uuid.New()))
	}
}

func TestLeave(t *testing.T) {
	svc, store, _ := newBoardFixture()
	owner := uuid.New()

	event, err := svc.CreateItem(context.Background(), owner, validEventInput(2))
	require.NoError(t, err)

	// Leaving without having joined reports not-found.
	stranger := uuid.New()
	err = svc.Leave(context.Background(), event.ID, stranger)
	assert.True(t, domain.Is(err, "member_not_in_event"))

	require.NoError(t, svc.Leave(context.Background(), event.ID, owner))

	got, err := store.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Members)

	// A freed slot is joinable again.
	require.NoError(t, svc.Join(context.Background(), event.ID, stranger))
}

func TestJoin_ConcurrentNeverOvershootsLimit(t *testing.T) {
	svc, store, _ := newBoardFixture()
	owner := uuid.New()

	// Limit 3 with the creator enrolled leaves exactly two free slots.
	event, err := svc.CreateItem(context.Background(), owner, validEventInput(3))
	require.NoError(t, err)

	const contenders = 10
	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.Join(context.Background(), event.ID, uuid.New())
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.True(t, domain.Is(err, "event_full") || domain.Is(err, "storage_contention"))
		}
	}
	assert.Equal(t, 2, successes)

	got, err := store.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 3)
}

// conflictingStore always loses the compare-and-swap.
type conflictingStore struct {
	domain.ItemStore
}

func (s conflictingStore) Update(ctx context.Context, it domain.Item) error {
	return domain.ErrVersionConflict
}

func TestMutations_SurfaceContentionWhenRetriesExhaust(t *testing.T) {
	base := memory.NewItemStore()
	svc := service.NewBoardService(conflictingStore{ItemStore: base}, memory.NewPublisher(), audit.New(zerolog.Nop()))

	owner := uuid.New()
	it := domain.Item{
		ID:         uuid.New(),
		Title:      "Contended",
		Category:   domain.CategoryEvent,
		BirthDate:  time.Now(),
		ExpiryDate: time.Now().Add(time.Hour),
		OwnerID:    owner,
	}
	require.NoError(t, base.Create(context.Background(), it))

	_, err := svc.CastVote(context.Background(), it.ID, uuid.New(), domain.PolarityUp)
	assert.True(t, domain.Is(err, "storage_contention"))
}
