package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/domain"
)

type UserStore struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]domain.User
	byUsername map[string]uuid.UUID
	byMail     map[string]uuid.UUID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:       make(map[uuid.UUID]domain.User),
		byUsername: make(map[string]uuid.UUID),
		byMail:     make(map[string]uuid.UUID),
	}
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return s.byID[id], nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[u.Username]; exists {
		return domain.User{}, domain.ErrUsernameTaken()
	}
	if _, exists := s.byMail[u.Mail]; exists {
		return domain.User{}, domain.ErrMailTaken()
	}
	if u.ID == uuid.Nil {
		return domain.User{}, domain.ErrInternal(nil)
	}

	s.byID[u.ID] = u
	s.byUsername[u.Username] = u.ID
	s.byMail[u.Mail] = u.ID
	return u, nil
}

func (s *UserStore) Update(ctx context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[u.ID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	if u.Mail != cur.Mail {
		if owner, exists := s.byMail[u.Mail]; exists && owner != u.ID {
			return domain.ErrMailTaken()
		}
		delete(s.byMail, cur.Mail)
		s.byMail[u.Mail] = u.ID
	}
	s.byID[u.ID] = u
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound()
	}
	delete(s.byID, id)
	delete(s.byUsername, u.Username)
	delete(s.byMail, u.Mail)
	return nil
}
