// Package notify is the outbound edge towards push/email dispatch. The core
// only ever fires these calls and forgets them: a notification failure must
// never fail a send.
package notify

// Notifier is told about a message that reached no live session of its
// recipient, so an out-of-band channel can ping them.
type Notifier interface {
	NotifyOfflineRecipient(userID, conversationID, messageID string) error
}

// Nop discards every notification. Used when no dispatch channel is configured
// and in tests.
type Nop struct{}

func (Nop) NotifyOfflineRecipient(userID, conversationID, messageID string) error { return nil }
