package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

// GetReadCursor returns the user's last-read sequence for the conversation,
// or 0 when the user has never read anything in it.
func (s *Service) GetReadCursor(ctx context.Context, conversationID, userID string) (int64, error) {
	var cursor models.ReadCursor
	err := s.DB.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&cursor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Transient("loading read cursor", err)
	}
	return cursor.LastReadSeq, nil
}

// AdvanceReadCursor sets the user's cursor to max(current, seq). It reports
// the effective cursor after the call and whether the call actually moved it;
// a lower or equal seq is a no-op, which makes retries idempotent.
func (s *Service) AdvanceReadCursor(ctx context.Context, conversationID, userID string, seq int64) (int64, bool, error) {
	if seq < 0 {
		return 0, false, apperrors.ErrNegativeSequence
	}

	effective := seq
	advanced := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cursor models.ReadCursor
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("conversation_id = ? AND user_id = ?", conversationID, userID).
			First(&cursor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cursor = models.ReadCursor{
				ConversationID: conversationID,
				UserID:         userID,
				LastReadSeq:    seq,
			}
			// Two sessions of the same user can race their first mark-read.
			// Insert-or-skip like CreateConversation: the loser re-locks the
			// winner's row and falls through to the normal advance path.
			res := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "conversation_id"},
					{Name: "user_id"},
				},
				DoNothing: true,
			}).Create(&cursor)
			if res.Error != nil {
				return apperrors.Transient("creating read cursor", res.Error)
			}
			if res.RowsAffected > 0 {
				advanced = seq > 0
				return nil
			}
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("conversation_id = ? AND user_id = ?", conversationID, userID).
				First(&cursor).Error
			if err != nil {
				return apperrors.Transient("re-locking read cursor", err)
			}
		} else if err != nil {
			return apperrors.Transient("locking read cursor", err)
		}

		if seq <= cursor.LastReadSeq {
			effective = cursor.LastReadSeq
			return nil
		}
		err = tx.Model(&models.ReadCursor{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, userID).
			Update("last_read_seq", seq).Error
		if err != nil {
			return apperrors.Transient("advancing read cursor", err)
		}
		advanced = true
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return effective, advanced, nil
}
