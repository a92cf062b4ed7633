// Package status enforces the delivery-state machine for messages:
// sent -> delivered -> read, never backwards. All transitions are written as
// "advance to at least X" so concurrent delivery and read marking cannot race
// a message into an earlier state.
package status

import (
	"context"
	"log"

	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

// Tracker owns every status transition. Nothing else mutates a message after
// creation.
type Tracker struct {
	Store storage.Store
}

func NewTracker(s storage.Store) *Tracker {
	return &Tracker{Store: s}
}

// MarkDelivered advances one message from sent to delivered. Calling it for a
// message that is already delivered or read is a no-op, so delivery marking is
// idempotent and order-independent.
func (t *Tracker) MarkDelivered(ctx context.Context, conversationID, messageID string) error {
	return t.Store.MarkMessageDelivered(ctx, conversationID, messageID)
}

// MarkDeliveredToRecipient advances every still-sent message addressed to
// recipientID in the conversation. Used when a message reaches a live
// recipient session, and when a recipient (re)subscribes and there is backlog
// that never saw a live session.
func (t *Tracker) MarkDeliveredToRecipient(ctx context.Context, conversationID, recipientID string) error {
	return t.Store.MarkMessagesDelivered(ctx, conversationID, recipientID)
}

// MarkReadUpTo moves the user's read cursor to max(current, seq), with seq
// clamped to the conversation's last sequence, and advances
// every message up to the effective cursor (excluding the user's own) to read.
// This is the only path by which a message reaches read: marking is always a
// prefix operation, since a user viewing a conversation has seen everything up
// to the message they opened it at.
//
// It returns the effective cursor and whether the call moved it. Re-issuing
// the call with the same or a lower sequence changes nothing.
func (t *Tracker) MarkReadUpTo(ctx context.Context, conversationID, userID string, seq int64) (int64, bool, error) {
	if seq < 0 {
		return 0, false, apperrors.ErrNegativeSequence
	}

	conv, err := t.Store.GetConversation(ctx, conversationID)
	if err != nil {
		return 0, false, err
	}
	if !conv.HasParticipant(userID) {
		return 0, false, apperrors.ErrNotParticipant
	}

	// A client cannot have read further than the last message that exists.
	// Clamping keeps a runaway up-to value from inflating the cursor past the
	// high-water mark, which would silently swallow receipts for every later
	// message.
	if seq > conv.LastSequence {
		seq = conv.LastSequence
	}

	effective, advanced, err := t.Store.AdvanceReadCursor(ctx, conversationID, userID, seq)
	if err != nil {
		return 0, false, err
	}
	if !advanced {
		return effective, false, nil
	}

	if err := t.Store.MarkMessagesRead(ctx, conversationID, userID, effective); err != nil {
		return 0, false, err
	}

	// The user has caught up; re-arm offline notification for them.
	if err := t.Store.ClearNotifyPending(ctx, conversationID, userID); err != nil {
		log.Printf("WARNING: Failed to clear notify-pending for %s/%s: %v", conversationID, userID, err)
	}
	return effective, true, nil
}
