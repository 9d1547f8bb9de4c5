package memory

import (
	"context"
	"sync"

	"github.com/flashboard/board-service/internal/domain"
)

// Publisher is a no-broker EventPublisher used in dev and tests. It records
// published events so tests can assert on them.
type Publisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

func NewPublisher() *Publisher { return &Publisher{} }

func (p *Publisher) record(key string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{RoutingKey: key, Payload: payload})
}

func (p *Publisher) PublishItemCreated(ctx context.Context, evt domain.ItemCreatedEvent) error {
	p.record("board.item.created", evt)
	return nil
}

func (p *Publisher) PublishVoteCast(ctx context.Context, evt domain.VoteCastEvent) error {
	p.record("board.vote.cast", evt)
	return nil
}

func (p *Publisher) PublishMemberJoined(ctx context.Context, evt domain.MembershipEvent) error {
	p.record("board.member.joined", evt)
	return nil
}

func (p *Publisher) PublishMemberLeft(ctx context.Context, evt domain.MembershipEvent) error {
	p.record("board.member.left", evt)
	return nil
}

// Recorded returns a snapshot of published events.
func (p *Publisher) Recorded() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.Events))
	copy(out, p.Events)
	return out
}
