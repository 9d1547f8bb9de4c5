package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/flashboard/board-service/internal/domain"
)

func TestParsePolarity(t *testing.T) {
	up, err := domain.ParsePolarity("upvote")
	assert.NoError(t, err)
	assert.Equal(t, domain.PolarityUp, up)

	down, err := domain.ParsePolarity("downvote")
	assert.NoError(t, err)
	assert.Equal(t, domain.PolarityDown, down)

	_, err = domain.ParsePolarity("sideways")
	assert.True(t, domain.Is(err, "invalid_vote_type"))
}

func TestItem_SetVote(t *testing.T) {
	it := domain.Item{}
	alice := uuid.New()
	bob := uuid.New()

	updated := it.SetVote(alice, domain.PolarityUp)
	assert.False(t, updated)
	assert.Equal(t, 1, it.VoteCount)

	updated = it.SetVote(bob, domain.PolarityDown)
	assert.False(t, updated)
	assert.Equal(t, 0, it.VoteCount)

	// Re-voting overwrites, never stacks.
	updated = it.SetVote(alice, domain.PolarityUp)
	assert.True(t, updated)
	assert.Len(t, it.Votes, 2)
	assert.Equal(t, 0, it.VoteCount)

	// Flipping polarity replaces the previous vote.
	updated = it.SetVote(alice, domain.PolarityDown)
	assert.True(t, updated)
	assert.Len(t, it.Votes, 2)
	assert.Equal(t, -2, it.VoteCount)
}

func TestItem_IsFull(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	it := domain.Item{MemberLimit: 2, Members: []uuid.UUID{a}}
	assert.False(t, it.IsFull())

	it.Members = append(it.Members, b)
	assert.True(t, it.IsFull())

	it.AllowOverload = true
	assert.False(t, it.IsFull())

	// Zero limit without overload never admits anyone.
	empty := domain.Item{MemberLimit: 0}
	assert.True(t, empty.IsFull())
}

func TestItem_Membership(t *testing.T) {
	it := domain.Item{}
	a, b := uuid.New(), uuid.New()

	it.AddMember(a)
	it.AddMember(b)
	assert.True(t, it.HasMember(a))

	assert.True(t, it.RemoveMember(a))
	assert.False(t, it.HasMember(a))
	assert.False(t, it.RemoveMember(a))
	assert.Equal(t, []uuid.UUID{b}, it.Members)
}

func TestItem_CloneDoesNotAlias(t *testing.T) {
	voter := uuid.New()
	it := domain.Item{
		Votes:   []domain.Vote{{VoterID: voter, Value: 1}},
		Members: []uuid.UUID{voter},
	}

	cp := it.Clone()
	cp.Votes[0].Value = -1
	cp.Members[0] = uuid.New()

	assert.Equal(t, 1, it.Votes[0].Value)
	assert.Equal(t, voter, it.Members[0])
}
