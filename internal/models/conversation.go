package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation represents the durable two-party message thread.
// The participant pair is stored canonicalized (UserLowID < UserHighID) so that
// (A,B) and (B,A) always resolve to the same row; the composite unique index
// is what stops concurrent first-contact attempts from creating duplicates.
type Conversation struct {
	// ID is the unique identifier for the conversation (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// UserLowID is the lexicographically smaller participant id.
	UserLowID string `gorm:"not null;uniqueIndex:idx_conv_pair,priority:1" json:"user_low_id"`
	// UserHighID is the lexicographically larger participant id.
	UserHighID string `gorm:"not null;uniqueIndex:idx_conv_pair,priority:2" json:"user_high_id"`

	// LastSequence is the per-conversation message cursor. It is only ever
	// advanced inside the AppendMessage transaction.
	LastSequence int64 `gorm:"not null;default:0" json:"last_sequence"`
	// LastMessagePreview caches the body of the newest message for listing.
	LastMessagePreview string `gorm:"type:text" json:"last_message_preview"`
	// LastMessageAt caches the timestamp of the newest message.
	LastMessageAt time.Time `gorm:"index:idx_conv_recency,sort:desc" json:"last_message_at"`

	// Archived hides the conversation from listings. Conversations are never deleted.
	Archived  bool      `gorm:"not null;default:false" json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a new UUID for the conversation if the ID is not set yet.
func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// HasParticipant reports whether the given user belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

// OtherParticipant returns the peer of the given user, or "" if the user
// is not a participant at all.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.UserLowID:
		return c.UserHighID
	case c.UserHighID:
		return c.UserLowID
	}
	return ""
}

// CanonicalPair orders two participant ids into the (low, high) form used
// as the conversation's unique key.
func CanonicalPair(userA, userB string) (low, high string) {
	if userA < userB {
		return userA, userB
	}
	return userB, userA
}
