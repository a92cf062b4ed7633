package chathub

import (
	"context"
	"encoding/json"
	"log"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
)

// RunEventBridge subscribes to the shared redis event channel and fans every
// received event out to this process's sessions. All published events — local
// ones included — arrive through here, which keeps delivery at-most-once per
// session regardless of how many service processes are running.
//
// Blocks until ctx is cancelled; callers run it on its own goroutine.
func (h *Hub) RunEventBridge(ctx context.Context, store storage.Store) {
	pubsub := store.SubscribeEvents(ctx)
	defer pubsub.Close()

	ch := pubsub.Channel()
	log.Println("Event bridge listening for cross-process events.")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Failed to decode bridged event: %v", err)
				continue
			}
			h.Publish(event)
		}
	}
}
