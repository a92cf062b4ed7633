// Package reconcile rebuilds a client's local view after a gap — a dropped
// connection, a fresh page load — with a single pull instead of replaying
// events. Statuses come straight off the store's current fields: intermediate
// transitions are irrelevant to a reconnecting client, only the final state
// matters.
package reconcile

import (
	"context"

	"github.com/larrysaam/scholar-connect-sub004/internal/config"
	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

type Service struct {
	Store storage.Store
}

func NewService(s storage.Store) *Service {
	return &Service{Store: s}
}

// Delta is everything a client needs to catch up on one conversation.
type Delta struct {
	// Messages missed since the client's last known sequence, ascending,
	// carrying their current (not historical) status.
	Messages []models.Message `json:"messages"`
	// ReadCursor is the requesting user's own cursor — shared across all of
	// the user's sessions, so a second device picks up what the first read.
	ReadCursor int64 `json:"read_cursor"`
	// PeerReadCursor lets the client render read ticks on its own messages.
	PeerReadCursor int64 `json:"peer_read_cursor"`
	// LastSequence is the conversation's current high-water mark; when the
	// last returned message sits below it, another page remains.
	LastSequence int64 `json:"last_sequence"`
}

// Catchup returns the messages after lastKnownSeq plus the authoritative
// cursor picture. A caller who is not a participant gets an authorization
// error — never another conversation's data.
func (s *Service) Catchup(ctx context.Context, conversationID, userID string, lastKnownSeq int64, limit int) (*Delta, error) {
	if lastKnownSeq < 0 {
		return nil, apperrors.ErrNegativeSequence
	}
	if limit <= 0 || limit > config.MaxCatchupLimit {
		limit = config.DefaultCatchupLimit
	}

	conv, err := s.Store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, apperrors.ErrNotParticipant
	}

	msgs, err := s.Store.ListMessagesSince(ctx, conversationID, lastKnownSeq, limit)
	if err != nil {
		return nil, err
	}
	cursor, err := s.Store.GetReadCursor(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	peerCursor, err := s.Store.GetReadCursor(ctx, conversationID, conv.OtherParticipant(userID))
	if err != nil {
		return nil, err
	}

	return &Delta{
		Messages:       msgs,
		ReadCursor:     cursor,
		PeerReadCursor: peerCursor,
		LastSequence:   conv.LastSequence,
	}, nil
}
