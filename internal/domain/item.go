package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies an item. Only CategoryEvent unlocks membership;
// every other value is a plain announcement.
type Category string

const CategoryEvent Category = "Event"

// Polarity is the direction of a vote.
type Polarity int

const (
	PolarityUp   Polarity = 1
	PolarityDown Polarity = -1
)

// ParsePolarity maps the URL votetype segment to a polarity.
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "upvote":
		return PolarityUp, nil
	case "downvote":
		return PolarityDown, nil
	default:
		return 0, ErrInvalidVoteType(s)
	}
}

// Vote is a single user's vote on an item. At most one Vote per VoterID
// exists within an item's Votes.
type Vote struct {
	VoterID uuid.UUID `json:"userID"`
	Value   int       `json:"value"`
}

// Item is a posted record: a plain announcement, or an event with
// capacity-bounded membership when Category is CategoryEvent.
//
// Version is the optimistic-lock stamp the store compares on update.
// VoteCount is derived from Votes and recomputed on every mutation;
// it is never trusted independently.
type Item struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	AddInfo     string    `json:"addInfo"`
	Category    Category  `json:"category"`

	BirthDate  time.Time `json:"birthdate"`
	ExpiryDate time.Time `json:"expirydate"`

	OwnerID uuid.UUID `json:"ownerID"`

	Votes     []Vote `json:"votes"`
	VoteCount int    `json:"voteCount"`

	Members       []uuid.UUID `json:"members,omitempty"`
	MemberLimit   int         `json:"memberLimit,omitempty"`
	AllowOverload bool        `json:"allowOverload,omitempty"`

	Version   uint64    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (it *Item) IsEvent() bool { return it.Category == CategoryEvent }

// IsFull reports whether the event cannot take another member.
func (it *Item) IsFull() bool {
	return len(it.Members) >= it.MemberLimit && !it.AllowOverload
}

// SetVote records or overwrites the caller's vote and reports whether an
// existing vote was overwritten. VoteCount is recomputed before returning.
func (it *Item) SetVote(voterID uuid.UUID, p Polarity) (updated bool) {
	for i := range it.Votes {
		if it.Votes[i].VoterID == voterID {
			it.Votes[i].Value = int(p)
			updated = true
			break
		}
	}
	if !updated {
		it.Votes = append(it.Votes, Vote{VoterID: voterID, Value: int(p)})
	}
	it.RecountVotes()
	return updated
}

// RecountVotes rederives VoteCount as the sum of vote values.
func (it *Item) RecountVotes() {
	sum := 0
	for _, v := range it.Votes {
		sum += v.Value
	}
	it.VoteCount = sum
}

func (it *Item) HasMember(id uuid.UUID) bool {
	for _, m := range it.Members {
		if m == id {
			return true
		}
	}
	return false
}

func (it *Item) AddMember(id uuid.UUID) {
	it.Members = append(it.Members, id)
}

// RemoveMember drops id from the member set, reporting whether it was present.
func (it *Item) RemoveMember(id uuid.UUID) bool {
	for i, m := range it.Members {
		if m == id {
			it.Members = append(it.Members[:i], it.Members[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy so stored state never aliases caller slices.
func (it Item) Clone() Item {
	cp := it
	if it.Votes != nil {
		cp.Votes = make([]Vote, len(it.Votes))
		copy(cp.Votes, it.Votes)
	}
	if it.Members != nil {
		cp.Members = make([]uuid.UUID, len(it.Members))
		copy(cp.Members, it.Members)
	}
	return cp
}
