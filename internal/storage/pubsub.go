package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

// eventsChannel is the redis pub/sub channel every service process listens on,
// so sessions connected to different processes still see each other's events.
const eventsChannel = "chat:events"

// notifyPendingTTL bounds how long an offline-notify dedupe key lives if the
// recipient never reads the conversation.
const notifyPendingTTL = 24 * time.Hour

// PublishEvent broadcasts an event to every service process via Redis Pub/Sub.
func (s *Service) PublishEvent(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "encoding event", err)
	}
	if err := s.Redis.Publish(ctx, eventsChannel, payload).Err(); err != nil {
		return apperrors.Transient("publishing event", err)
	}
	return nil
}

// SubscribeEvents subscribes to the shared event channel.
func (s *Service) SubscribeEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, eventsChannel)
}

func notifyPendingKey(conversationID, userID string) string {
	return "notify:" + conversationID + ":" + userID
}

// MarkNotifyPending records that userID has an unread message in the
// conversation. It returns true only for the first call until the key is
// cleared, so the offline notifier pings a user at most once per conversation.
func (s *Service) MarkNotifyPending(ctx context.Context, conversationID, userID string) (bool, error) {
	ok, err := s.Redis.SetNX(ctx, notifyPendingKey(conversationID, userID), "1", notifyPendingTTL).Result()
	if err != nil {
		return false, apperrors.Transient("setting notify-pending key", err)
	}
	return ok, nil
}

// ClearNotifyPending re-arms offline notification for the pair, called after
// the user reads the conversation.
func (s *Service) ClearNotifyPending(ctx context.Context, conversationID, userID string) error {
	if err := s.Redis.Del(ctx, notifyPendingKey(conversationID, userID)).Err(); err != nil {
		return apperrors.Transient("clearing notify-pending key", err)
	}
	return nil
}
