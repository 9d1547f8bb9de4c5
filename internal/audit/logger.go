package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flashboard/board-service/internal/domain"
	appCtx "github.com/flashboard/board-service/internal/pkg/context"
)

// Logger provides structured audit logging for business events
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// ItemCreated logs a new item posting.
func (l *Logger) ItemCreated(ctx context.Context, itemID, ownerID uuid.UUID, category domain.Category) {
	l.log.Info().
		Str("action", "item_created").
		Str("item_id", itemID.String()).
		Str("owner_id", ownerID.String()).
		Str("category", string(category)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Item created")
}

// ItemDeleted logs an owner removing their item.
func (l *Logger) ItemDeleted(ctx context.Context, itemID, ownerID uuid.UUID) {
	l.log.Info().
		Str("action", "item_deleted").
		Str("item_id", itemID.String()).
		Str("owner_id", ownerID.String()).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Item deleted")
}

// VoteCast logs a recorded or updated vote with the resulting tally.
func (l *Logger) VoteCast(ctx context.Context, itemID, voterID uuid.UUID, value, voteCount int, updated bool) {
	l.log.Info().
		Str("action", "vote_cast").
		Str("item_id", itemID.String()).
		Str("voter_id", voterID.String()).
		Int("value", value).
		Int("vote_count", voteCount).
		Bool("updated", updated).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Vote cast")
}

// MemberJoined logs a user joining an event.
func (l *Logger) MemberJoined(ctx context.Context, eventID, memberID uuid.UUID, members int) {
	l.log.Info().
		Str("action", "member_joined").
		Str("event_id", eventID.String()).
		Str("member_id", memberID.String()).
		Int("members", members).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User joined event")
}

// MemberLeft logs a user leaving an event.
func (l *Logger) MemberLeft(ctx context.Context, eventID, memberID uuid.UUID, members int) {
	l.log.Info().
		Str("action", "member_left").
		Str("event_id", eventID.String()).
		Str("member_id", memberID.String()).
		Int("members", members).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User left event")
}
