package models

// Command is the envelope for every client-to-server frame on the
// websocket channel. Type selects which of the optional fields apply.
type Command struct {
	Type           CommandType `json:"type"`
	ConversationID string      `json:"conversation_id"`
	// Body is set for "send".
	Body string `json:"body,omitempty"`
	// UpToSeq is set for "mark_read".
	UpToSeq int64 `json:"up_to_seq,omitempty"`
}

type CommandType string

const (
	CommandSend        CommandType = "send"
	CommandSubscribe   CommandType = "subscribe"
	CommandUnsubscribe CommandType = "unsubscribe"
	CommandMarkRead    CommandType = "mark_read"
)

// Event is the envelope for every server-to-client frame, and also the
// payload carried across processes on the redis bridge.
type Event struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
	// Message is set for "message_created".
	Message *Message `json:"message,omitempty"`
	// UserID and UpToSeq are set for "read_receipt".
	UserID  string `json:"user_id,omitempty"`
	UpToSeq int64  `json:"up_to_seq,omitempty"`
	// Error carries a rejection back to the issuing client only.
	Error string `json:"error,omitempty"`
}

type EventType string

const (
	EventMessageCreated EventType = "message_created"
	EventReadReceipt    EventType = "read_receipt"
	EventError          EventType = "error"
)

// NewMessageCreated builds the fan-out event for a freshly appended message.
func NewMessageCreated(msg *Message) Event {
	return Event{
		Type:           EventMessageCreated,
		ConversationID: msg.ConversationID,
		Message:        msg,
	}
}

// NewReadReceipt builds the fan-out event for an advanced read cursor.
func NewReadReceipt(conversationID, userID string, upToSeq int64) Event {
	return Event{
		Type:           EventReadReceipt,
		ConversationID: conversationID,
		UserID:         userID,
		UpToSeq:        upToSeq,
	}
}
