package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/domain"
)

// ItemStore is the in-memory implementation of the keyed item store.
// Every record carries a version stamp; Update is a compare-and-swap on it,
// so two concurrent read-modify-write sequences against the same item cannot
// both commit.
type ItemStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]domain.Item
}

func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[uuid.UUID]domain.Item)}
}

func (s *ItemStore) Get(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[id]
	if !ok {
		return domain.Item{}, domain.ErrItemNotFound()
	}
	return it.Clone(), nil
}

func (s *ItemStore) List(ctx context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VoteCount > out[j].VoteCount
	})
	return out, nil
}

func (s *ItemStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Item
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			out = append(out, it.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VoteCount > out[j].VoteCount
	})
	return out, nil
}

func (s *ItemStore) Create(ctx context.Context, it domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[it.ID]; exists {
		return domain.ErrInternal(nil)
	}
	it.Version = 1
	s.items[it.ID] = it.Clone()
	return nil
}

func (s *ItemStore) Update(ctx context.Context, it domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[it.ID]
	if !ok {
		return domain.ErrItemNotFound()
	}
	if cur.Version != it.Version {
		return domain.ErrVersionConflict
	}
	it.Version++
	s.items[it.ID] = it.Clone()
	return nil
}

func (s *ItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return domain.ErrItemNotFound()
	}
	delete(s.items, id)
	return nil
}
