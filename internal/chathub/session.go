package chathub

import "github.com/larrysaam/scholar-connect-sub004/internal/models"

// Session is the interface for one connected client channel (a tab, a device).
// It abstracts the underlying transport, allowing the hub to manage different
// session types uniformly. A user may hold any number of concurrent sessions.
type Session interface {
	// SessionID returns the unique identifier of this connection. A fresh one
	// is assigned on every connect; sessions never survive a process restart.
	SessionID() string
	// UserID returns the authenticated user the session belongs to.
	UserID() string

	// Deliver enqueues an event for the session's write pump. It never blocks:
	// when the session's bounded queue is full the event is dropped and Deliver
	// returns false — the client recovers the gap through catch-up on its next
	// reconnect, not through the hub.
	Deliver(event models.Event) bool

	// Run starts the session's read and write pumps.
	Run()
	// Close shuts down the session's connection and associated channels.
	Close()
}
