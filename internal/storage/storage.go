package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
)

// Store is the interface the hub, status tracker and reconciliation service
// consume. PostgreSQL (via gorm) is the source of truth for ordering and
// status; redis carries the cross-process event bridge and the offline-notify
// dedupe keys.
type Store interface {
	CreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error)
	GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	ArchiveConversation(ctx context.Context, conversationID string) error

	AppendMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error)
	ListMessagesSince(ctx context.Context, conversationID string, afterSeq int64, limit int) ([]models.Message, error)

	GetReadCursor(ctx context.Context, conversationID, userID string) (int64, error)
	AdvanceReadCursor(ctx context.Context, conversationID, userID string, seq int64) (effective int64, advanced bool, err error)
	MarkMessageDelivered(ctx context.Context, conversationID, messageID string) error
	MarkMessagesDelivered(ctx context.Context, conversationID, recipientID string) error
	MarkMessagesRead(ctx context.Context, conversationID, readerID string, upToSeq int64) error

	PublishEvent(ctx context.Context, event models.Event) error
	SubscribeEvents(ctx context.Context) *redis.PubSub

	MarkNotifyPending(ctx context.Context, conversationID, userID string) (bool, error)
	ClearNotifyPending(ctx context.Context, conversationID, userID string) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

var _ Store = (*Service)(nil)

// NewService Constructor
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

// Migrate creates or updates the tables the messaging core owns.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Conversation{},
		&models.Message{},
		&models.ReadCursor{},
	)
}
