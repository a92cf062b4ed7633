package storage

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

// previewLimit caps the denormalized last-message text on the conversation row.
const previewLimit = 120

// truncatePreview caps body at previewLimit bytes without splitting a
// multi-byte rune, so the stored preview is always valid UTF-8.
func truncatePreview(body string) string {
	if len(body) <= previewLimit {
		return body
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}

// AppendMessage persists a new message with the next sequence number of its
// conversation. The conversation row is locked for the duration of the
// transaction, which is the single serialization point that keeps sequences
// strictly increasing and gap-free under concurrent senders. Either the
// message, the sequence bump and the preview cache all commit, or none do.
func (s *Service) AppendMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.ErrEmptyBody
	}

	var msg models.Message
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", conversationID).
			First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrConversationNotFound
		}
		if err != nil {
			return apperrors.Transient("locking conversation", err)
		}
		if !conv.HasParticipant(senderID) {
			return apperrors.ErrNotParticipant
		}

		msg = models.Message{
			ConversationID: conversationID,
			Seq:            conv.LastSequence + 1,
			SenderID:       senderID,
			Body:           body,
			Status:         models.StatusSent,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return apperrors.Transient("inserting message", err)
		}

		preview := truncatePreview(body)
		err = tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Updates(map[string]interface{}{
				"last_sequence":        msg.Seq,
				"last_message_preview": preview,
				"last_message_at":      msg.CreatedAt,
			}).Error
		if err != nil {
			return apperrors.Transient("updating conversation cache", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: Failed to append message to conversation %s: %v", conversationID, err)
		return nil, err
	}
	return &msg, nil
}

// ListMessagesSince returns up to limit messages with seq strictly greater
// than afterSeq, ascending. Callers page by feeding the last returned seq
// back in as afterSeq.
func (s *Service) ListMessagesSince(ctx context.Context, conversationID string, afterSeq int64, limit int) ([]models.Message, error) {
	if afterSeq < 0 {
		return nil, apperrors.ErrNegativeSequence
	}
	q := s.DB.WithContext(ctx).
		Where("conversation_id = ? AND seq > ?", conversationID, afterSeq).
		Order("seq ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var msgs []models.Message
	if err := q.Find(&msgs).Error; err != nil {
		log.Printf("ERROR: Failed to list messages for conversation %s after seq %d: %v", conversationID, afterSeq, err)
		return nil, apperrors.Transient("listing messages", err)
	}
	return msgs, nil
}

// MarkMessageDelivered advances a single message from sent to delivered.
// A message already delivered or read is left alone.
func (s *Service) MarkMessageDelivered(ctx context.Context, conversationID, messageID string) error {
	err := s.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND id = ? AND status = ?",
			conversationID, messageID, models.StatusSent).
		Update("status", models.StatusDelivered).Error
	if err != nil {
		return apperrors.Transient("marking message delivered", err)
	}
	return nil
}

// MarkMessagesDelivered advances every still-sent message in the conversation
// that was not sent by recipientID to delivered. Expressed as "advance what is
// still behind", so it is idempotent and safe under concurrent calls.
func (s *Service) MarkMessagesDelivered(ctx context.Context, conversationID, recipientID string) error {
	err := s.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND status = ?",
			conversationID, recipientID, models.StatusSent).
		Update("status", models.StatusDelivered).Error
	if err != nil {
		return apperrors.Transient("marking messages delivered", err)
	}
	return nil
}

// MarkMessagesRead advances every message up to and including upToSeq that was
// not sent by readerID to read. A sender never reads their own messages via
// their own cursor, hence the sender exclusion.
func (s *Service) MarkMessagesRead(ctx context.Context, conversationID, readerID string, upToSeq int64) error {
	err := s.DB.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND seq <= ? AND status <> ?",
			conversationID, readerID, upToSeq, models.StatusRead).
		Update("status", models.StatusRead).Error
	if err != nil {
		return apperrors.Transient("marking messages read", err)
	}
	return nil
}
