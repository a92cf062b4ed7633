package errors

var (
	// Domain errors — used by storage, status and reconcile
	ErrConversationNotFound = NotFound("conversation not found")
	ErrNotParticipant       = Unauthorized("caller is not a participant of the conversation")
	ErrEmptyBody            = InvalidArg("message body cannot be empty")
	ErrSelfConversation     = InvalidArg("a conversation needs two distinct participants")
	ErrNegativeSequence     = InvalidArg("sequence number cannot be negative")
)
