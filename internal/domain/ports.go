package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemStore is the keyed store contract the core requires. Update is a
// compare-and-swap on Item.Version: it fails with ErrVersionConflict when a
// concurrent writer got there first, and bumps the version on success. The
// service layer builds every mutation as a load-mutate-Update retry loop,
// so no path ever does an unconditional read-then-overwrite.
type ItemStore interface {
	Get(ctx context.Context, id uuid.UUID) (Item, error)
	List(ctx context.Context) ([]Item, error) // sorted by VoteCount descending
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Item, error)
	Create(ctx context.Context, it Item) error
	Update(ctx context.Context, it Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore persists users. Create enforces username and mail uniqueness;
// Update enforces mail uniqueness against other users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CacheRepository backs request rate limiting.
type CacheRepository interface {
	AllowRequest(ctx context.Context, ip string, limit int, window time.Duration) (bool, error)
}

// Board event payloads published to the message broker.
type ItemCreatedEvent struct {
	ItemID   uuid.UUID `json:"item_id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Category Category  `json:"category"`
}

type VoteCastEvent struct {
	ItemID    uuid.UUID `json:"item_id"`
	VoterID   uuid.UUID `json:"voter_id"`
	Value     int       `json:"value"`
	VoteCount int       `json:"vote_count"`
}

type MembershipEvent struct {
	EventID  uuid.UUID `json:"event_id"`
	MemberID uuid.UUID `json:"member_id"`
	Members  int       `json:"members"`
}

// EventPublisher emits board events for downstream consumers. Implementations
// must be safe to call concurrently; publish failures are logged, never
// surfaced to the request.
type EventPublisher interface {
	PublishItemCreated(ctx context.Context, evt ItemCreatedEvent) error
	PublishVoteCast(ctx context.Context, evt VoteCastEvent) error
	PublishMemberJoined(ctx context.Context, evt MembershipEvent) error
	PublishMemberLeft(ctx context.Context, evt MembershipEvent) error
}
