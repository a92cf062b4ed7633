package status_test

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
)

// MockStore is a testify/mock implementation of the storage.Store interface.
type MockStore struct {
	mock.Mock
}

var _ storage.Store = (*MockStore)(nil)

func (m *MockStore) CreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStore) GetConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockStore) ListConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockStore) ArchiveConversation(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *MockStore) AppendMessage(ctx context.Context, conversationID, senderID, body string) (*models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStore) ListMessagesSince(ctx context.Context, conversationID string, afterSeq int64, limit int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, afterSeq, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStore) GetReadCursor(ctx context.Context, conversationID, userID string) (int64, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) AdvanceReadCursor(ctx context.Context, conversationID, userID string, seq int64) (int64, bool, error) {
	args := m.Called(ctx, conversationID, userID, seq)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockStore) MarkMessageDelivered(ctx context.Context, conversationID, messageID string) error {
	args := m.Called(ctx, conversationID, messageID)
	return args.Error(0)
}

func (m *MockStore) MarkMessagesDelivered(ctx context.Context, conversationID, recipientID string) error {
	args := m.Called(ctx, conversationID, recipientID)
	return args.Error(0)
}

func (m *MockStore) MarkMessagesRead(ctx context.Context, conversationID, readerID string, upToSeq int64) error {
	args := m.Called(ctx, conversationID, readerID, upToSeq)
	return args.Error(0)
}

func (m *MockStore) PublishEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStore) SubscribeEvents(ctx context.Context) *redis.PubSub {
	m.Called(ctx)
	return &redis.PubSub{}
}

func (m *MockStore) MarkNotifyPending(ctx context.Context, conversationID, userID string) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ClearNotifyPending(ctx context.Context, conversationID, userID string) error {
	args := m.Called(ctx, conversationID, userID)
	return args.Error(0)
}
