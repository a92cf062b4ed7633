package chathub

import (
	"context"
	"log"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	"github.com/larrysaam/scholar-connect-sub004/internal/notify"
	"github.com/larrysaam/scholar-connect-sub004/internal/status"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
)

// Commander translates wire commands coming off a session's read pump into
// message-store and status-tracker calls. Each command runs on the issuing
// session's own goroutine, so a slow database call blocks only that client.
type Commander struct {
	Store    storage.Store
	Tracker  *status.Tracker
	Hub      *Hub
	Notifier notify.Notifier
}

func NewCommander(store storage.Store, tracker *status.Tracker, hub *Hub, notifier notify.Notifier) *Commander {
	return &Commander{Store: store, Tracker: tracker, Hub: hub, Notifier: notifier}
}

// Handle dispatches one command. Failures are reported back on the issuing
// session only; they never fan out.
func (c *Commander) Handle(ctx context.Context, sess Session, cmd models.Command) {
	switch cmd.Type {
	case models.CommandSend:
		c.handleSend(ctx, sess, cmd)
	case models.CommandSubscribe:
		c.handleSubscribe(ctx, sess, cmd)
	case models.CommandUnsubscribe:
		c.Hub.Unsubscribe(sess, cmd.ConversationID)
	case models.CommandMarkRead:
		c.handleMarkRead(ctx, sess, cmd)
	default:
		c.reject(sess, cmd.ConversationID, "unknown command type")
	}
}

// handleSend persists the message, settles its initial delivery state, then
// publishes it. The message either fully commits or the sender gets an error
// frame back; there is no partial send.
func (c *Commander) handleSend(ctx context.Context, sess Session, cmd models.Command) {
	msg, err := c.Store.AppendMessage(ctx, cmd.ConversationID, sess.UserID(), cmd.Body)
	if err != nil {
		c.reject(sess, cmd.ConversationID, err.Error())
		return
	}

	conv, err := c.Store.GetConversation(ctx, cmd.ConversationID)
	if err != nil {
		// The message is committed; only the delivery bookkeeping is skipped.
		log.Printf("ERROR: Failed to load conversation %s after send: %v", cmd.ConversationID, err)
		c.publish(ctx, models.NewMessageCreated(msg))
		return
	}

	recipient := conv.OtherParticipant(sess.UserID())
	if c.Hub.HasSubscribedSession(cmd.ConversationID, recipient) {
		// Delivered means "reached a live recipient session", not "rendered".
		if err := c.Tracker.MarkDeliveredToRecipient(ctx, cmd.ConversationID, recipient); err != nil {
			log.Printf("ERROR: Failed to mark delivery in conversation %s: %v", cmd.ConversationID, err)
		} else {
			msg.Status = models.StatusDelivered
		}
	} else {
		go c.notifyOffline(recipient, cmd.ConversationID, msg.ID)
	}

	c.publish(ctx, models.NewMessageCreated(msg))
}

// handleSubscribe adds the session to the conversation's fan-out set and
// settles delivery for any backlog that never reached a live session.
func (c *Commander) handleSubscribe(ctx context.Context, sess Session, cmd models.Command) {
	conv, err := c.Store.GetConversation(ctx, cmd.ConversationID)
	if err != nil {
		c.reject(sess, cmd.ConversationID, err.Error())
		return
	}
	if !conv.HasParticipant(sess.UserID()) {
		c.reject(sess, cmd.ConversationID, "not a participant of this conversation")
		return
	}

	c.Hub.Subscribe(sess, cmd.ConversationID)

	if err := c.Tracker.MarkDeliveredToRecipient(ctx, cmd.ConversationID, sess.UserID()); err != nil {
		log.Printf("ERROR: Failed to settle delivery on subscribe to %s: %v", cmd.ConversationID, err)
	}
}

func (c *Commander) handleMarkRead(ctx context.Context, sess Session, cmd models.Command) {
	effective, advanced, err := c.Tracker.MarkReadUpTo(ctx, cmd.ConversationID, sess.UserID(), cmd.UpToSeq)
	if err != nil {
		c.reject(sess, cmd.ConversationID, err.Error())
		return
	}
	if !advanced {
		return // idempotent re-read of an already-read prefix
	}
	c.publish(ctx, models.NewReadReceipt(cmd.ConversationID, sess.UserID(), effective))
}

// publish hands the event to the redis bridge; every process (this one
// included) fans it out to its own subscribed sessions from there.
func (c *Commander) publish(ctx context.Context, event models.Event) {
	if err := c.Store.PublishEvent(ctx, event); err != nil {
		log.Printf("ERROR: Failed to publish %s event for conversation %s: %v",
			event.Type, event.ConversationID, err)
	}
}

// notifyOffline pings the recipient out-of-band, at most once per conversation
// until they read it. Fire-and-forget: failures never reach the send path.
func (c *Commander) notifyOffline(userID, conversationID, messageID string) {
	first, err := c.Store.MarkNotifyPending(context.Background(), conversationID, userID)
	if err != nil {
		log.Printf("WARNING: Notify-pending check failed for %s/%s: %v", conversationID, userID, err)
		return
	}
	if !first {
		return // already pinged for this conversation
	}
	if err := c.Notifier.NotifyOfflineRecipient(userID, conversationID, messageID); err != nil {
		log.Printf("WARNING: Offline notification for user %s failed: %v", userID, err)
	}
}

func (c *Commander) reject(sess Session, conversationID, reason string) {
	sess.Deliver(models.Event{
		Type:           models.EventError,
		ConversationID: conversationID,
		Error:          reason,
	})
}
