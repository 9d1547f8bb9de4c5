package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/audit"
	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/logger"
)

// casRetryLimit bounds the compare-and-swap retry loop. Retries are an
// internal detail: callers only see an error when the loop is exhausted.
const casRetryLimit = 5

// BoardService owns every item mutation: creation, updates, deletion, the
// vote aggregator, and the event membership manager. All mutations run as an
// atomic read-modify-write against the keyed store.
type BoardService struct {
	items  domain.ItemStore
	events domain.EventPublisher
	audit  *audit.Logger
	now    func() time.Time
}

func NewBoardService(items domain.ItemStore, events domain.EventPublisher, auditLog *audit.Logger) *BoardService {
	return &BoardService{
		items:  items,
		events: events,
		audit:  auditLog,
		now:    time.Now,
	}
}

type CreateItemInput struct {
	Title       string
	Description string
	Location    string
	AddInfo     string
	Category    domain.Category

	// BirthDate zero value means "starts now".
	BirthDate  time.Time
	ExpiryDate time.Time

	MemberLimit   int
	AllowOverload bool
}

type UpdateItemInput struct {
	Title       string
	Description string
	Location    string
	AddInfo     string

	BirthDate  time.Time
	ExpiryDate time.Time

	MemberLimit   int
	AllowOverload bool
}

// VoteResult reports a successful CastVote. Updated distinguishes an
// overwritten vote from a first vote; post-conditions are identical.
type VoteResult struct {
	Updated   bool
	VoteCount int
}

// mutateItem is the single write path for existing items: load the current
// record, apply fn, and commit with a compare-and-swap. A lost race re-reads
// fresh state and reapplies fn, so decisions like the capacity check are
// never made against a stale snapshot.
func (s *BoardService) mutateItem(ctx context.Context, id uuid.UUID, fn func(*domain.Item) error) (domain.Item, error) {
	for attempt := 0; attempt < casRetryLimit; attempt++ {
		it, err := s.items.Get(ctx, id)
		if err != nil {
			return domain.Item{}, err
		}
		if err := fn(&it); err != nil {
			return domain.Item{}, err
		}
		err = s.items.Update(ctx, it)
		if err == nil {
			return it, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return domain.Item{}, err
		}
	}
	return domain.Item{}, domain.ErrStorageContention()
}

// CreateItem validates the lifetime window and persists a new item with zero
// votes. An Event auto-enrolls its creator as the first member.
func (s *BoardService) CreateItem(ctx context.Context, ownerID uuid.UUID, in CreateItemInput) (domain.Item, error) {
	now := s.now()
	birth := in.BirthDate
	if birth.IsZero() {
		birth = now
	}
	if err := domain.ValidateWindow(birth, in.ExpiryDate, now); err != nil {
		return domain.Item{}, err
	}
	if in.Category == domain.CategoryEvent && in.MemberLimit < 0 {
		return domain.Item{}, domain.ErrInvalidField("memberLimit", "must be >= 0")
	}

	it := domain.Item{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		AddInfo:     in.AddInfo,
		Category:    in.Category,
		BirthDate:   birth,
		ExpiryDate:  in.ExpiryDate,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if it.IsEvent() {
		it.MemberLimit = in.MemberLimit
		it.AllowOverload = in.AllowOverload
		it.AddMember(ownerID)
	}

	if err := s.items.Create(ctx, it); err != nil {
		return domain.Item{}, err
	}

	s.audit.ItemCreated(ctx, it.ID, ownerID, it.Category)
	s.publishItemCreated(ctx, it)
	return it, nil
}

// UpdateItem applies owner-only field updates, re-validating the lifetime
// window against the current clock.
func (s *BoardService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, in UpdateItemInput) (domain.Item, error) {
	return s.mutateItem(ctx, itemID, func(it *domain.Item) error {
		if it.OwnerID != ownerID {
			return domain.ErrNotOwner()
		}
		if err := domain.ValidateWindow(in.BirthDate, in.ExpiryDate, s.now()); err != nil {
			return err
		}

		it.Title = in.Title
		it.Description = in.Description
		it.Location = in.Location
		it.AddInfo = in.AddInfo
		it.BirthDate = in.BirthDate
		it.ExpiryDate = in.ExpiryDate
		if it.IsEvent() {
			it.MemberLimit = in.MemberLimit
			it.AllowOverload = in.AllowOverload
		}
		it.UpdatedAt = s.now()
		return nil
	})
}

func (s *BoardService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	it, err := s.items.Get(ctx, itemID)
	if err != nil {
		return err
	}
	if it.OwnerID != ownerID {
		return domain.ErrNotOwner()
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}
	s.audit.ItemDeleted(ctx, itemID, ownerID)
	return nil
}

func (s *BoardService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.items.List(ctx)
}

func (s *BoardService) ListItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Item, error) {
	return s.items.ListByOwner(ctx, ownerID)
}

// CastVote records the caller's vote, overwriting any previous one, and
// rederives the tally. At most one vote per voter ever exists on an item.
func (s *BoardService) CastVote(ctx context.Context, itemID, voterID uuid.UUID, p domain.Polarity) (VoteResult, error) {
	var res VoteResult
	it, err := s.mutateItem(ctx, itemID, func(it *domain.Item) error {
		res.Updated = it.SetVote(voterID, p)
		res.VoteCount = it.VoteCount
		it.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}

	s.audit.VoteCast(ctx, itemID, voterID, int(p), it.VoteCount, res.Updated)
	if err := s.events.PublishVoteCast(ctx, domain.VoteCastEvent{
		ItemID:    itemID,
		VoterID:   voterID,
		Value:     int(p),
		VoteCount: it.VoteCount,
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("vote event publish failed")
	}
	return res, nil
}

// Join adds the caller to an event's member set. The capacity check and the
// insertion are one atomic unit: on a compare-and-swap conflict the member
// count is re-read before the retry, so concurrent joins cannot overshoot the
// limit.
func (s *BoardService) Join(ctx context.Context, eventID, memberID uuid.UUID) error {
	it, err := s.mutateItem(ctx, eventID, func(it *domain.Item) error {
		if !it.IsEvent() {
			return domain.ErrNotAnEvent()
		}
		if it.HasMember(memberID) {
			return domain.ErrAlreadyMember()
		}
		if it.IsFull() {
			return domain.ErrEventFull()
		}
		it.AddMember(memberID)
		it.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return asEventLookupErr(err)
	}

	s.audit.MemberJoined(ctx, eventID, memberID, len(it.Members))
	if err := s.events.PublishMemberJoined(ctx, domain.MembershipEvent{
		EventID:  eventID,
		MemberID: memberID,
		Members:  len(it.Members),
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("join event publish failed")
	}
	return nil
}

// Leave removes the caller from an event's member set. Removing an absent
// member reports NotFound rather than silently succeeding.
func (s *BoardService) Leave(ctx context.Context, eventID, memberID uuid.UUID) error {
	it, err := s.mutateItem(ctx, eventID, func(it *domain.Item) error {
		if !it.IsEvent() {
			return domain.ErrNotAnEvent()
		}
		if !it.RemoveMember(memberID) {
			return domain.ErrNotMember()
		}
		it.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return asEventLookupErr(err)
	}

	s.audit.MemberLeft(ctx, eventID, memberID, len(it.Members))
	if err := s.events.PublishMemberLeft(ctx, domain.MembershipEvent{
		EventID:  eventID,
		MemberID: memberID,
		Members:  len(it.Members),
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("leave event publish failed")
	}
	return nil
}

// asEventLookupErr converts a missing-item lookup into the event-scoped
// not-found, matching how join/leave callers see the world.
func asEventLookupErr(err error) error {
	if domain.Is(err, "item_not_found") {
		return domain.ErrNotAnEvent()
	}
	return err
}

func (s *BoardService) publishItemCreated(ctx context.Context, it domain.Item) {
	if err := s.events.PublishItemCreated(ctx, domain.ItemCreatedEvent{
		ItemID:   it.ID,
		OwnerID:  it.OwnerID,
		Category: it.Category,
	}); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("item event publish failed")
	}
}
