package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the delivery state of a message. It only ever moves forward:
// sent -> delivered -> read. A regression is a bug, so every mutation goes
// through the status tracker which writes "advance to at least X" updates.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// statusRank orders statuses for the monotonic comparison.
var statusRank = map[Status]int{
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// Rank returns the position of the status in the sent<delivered<read order,
// or 0 for an unknown status.
func (s Status) Rank() int { return statusRank[s] }

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool { return s.Rank() != 0 }

// CanAdvanceTo reports whether moving from s to next is a forward transition.
func (s Status) CanAdvanceTo(next Status) bool {
	return next.Valid() && next.Rank() > s.Rank()
}

// Max returns the later of the two statuses.
func (s Status) Max(other Status) Status {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

// Message is one immutable entry of a conversation. Seq is assigned by the
// store at insertion time and is strictly increasing and gap-free within the
// owning conversation.
type Message struct {
	// ID is the unique identifier for the message (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// ConversationID is the owning conversation.
	ConversationID string `gorm:"not null;uniqueIndex:idx_msg_seq,priority:1" json:"conversation_id"`
	// Seq is the per-conversation sequence number.
	Seq int64 `gorm:"not null;uniqueIndex:idx_msg_seq,priority:2" json:"seq"`
	// SenderID is the user who sent the message.
	SenderID string `gorm:"not null;index" json:"sender_id"`
	// Body is the message text. Immutable after creation.
	Body string `gorm:"type:text;not null" json:"body"`
	// Status is the current delivery state. Mutated only by the status tracker.
	Status Status `gorm:"type:text;not null;default:'sent'" json:"status"`
	// CreatedAt is server-assigned; client timestamps are advisory only.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate generates a new UUID for the message if the ID is not set yet.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = StatusSent
	}
	return
}
