package storage

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

// CreateConversation returns the conversation for the unordered (userA, userB)
// pair, creating it if it does not exist yet. Concurrent first-contact attempts
// from both sides land on the same unique (user_low_id, user_high_id) key; the
// loser of the race gets the winner's row back, never an error.
func (s *Service) CreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == "" || userB == "" {
		return nil, apperrors.InvalidArg("participant id cannot be empty")
	}
	if userA == userB {
		return nil, apperrors.ErrSelfConversation
	}

	low, high := models.CanonicalPair(userA, userB)
	conv := models.Conversation{UserLowID: low, UserHighID: high}

	// ON CONFLICT DO NOTHING: the duplicate-creation race is resolved here
	// rather than surfaced to the caller.
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_low_id"}, {Name: "user_high_id"}},
			DoNothing: true,
		}).
		Create(&conv)
	if res.Error != nil {
		return nil, apperrors.Transient("creating conversation", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("INFO: New conversation %s created for pair (%s, %s).", conv.ID, low, high)
		return &conv, nil
	}

	// Someone else inserted the pair first; fetch their row.
	var existing models.Conversation
	err := s.DB.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		First(&existing).Error
	if err != nil {
		return nil, apperrors.Transient("loading conversation after conflict", err)
	}
	return &existing, nil
}

// GetConversation loads one conversation by id.
func (s *Service) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.DB.WithContext(ctx).Where("id = ?", conversationID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrConversationNotFound
	}
	if err != nil {
		return nil, apperrors.Transient("loading conversation", err)
	}
	return &conv, nil
}

// ListConversationsForUser returns the user's conversations, newest activity first.
func (s *Service) ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.WithContext(ctx).
		Where("archived = ?", false).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("ERROR: Failed to list conversations for user %s: %v", userID, err)
		return nil, apperrors.Transient("listing conversations", err)
	}
	return convs, nil
}

// ArchiveConversation hides the conversation from listings. There is no delete.
func (s *Service) ArchiveConversation(ctx context.Context, conversationID string) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("archived", true)
	if res.Error != nil {
		return apperrors.Transient("archiving conversation", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConversationNotFound
	}
	return nil
}
