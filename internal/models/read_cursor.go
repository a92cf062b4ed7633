package models

import "time"

// ReadCursor is the per-(conversation,user) high-water mark of the last
// sequence the user has read. LastReadSeq is monotonically non-decreasing;
// setting a lower or equal value is a no-op.
type ReadCursor struct {
	ConversationID string    `gorm:"primaryKey" json:"conversation_id"`
	UserID         string    `gorm:"primaryKey" json:"user_id"`
	LastReadSeq    int64     `gorm:"not null;default:0" json:"last_read_seq"`
	UpdatedAt      time.Time `json:"updated_at"`
}
