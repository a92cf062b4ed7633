package chathub_test

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/larrysaam/scholar-connect-sub004/internal/chathub"
	"github.com/larrysaam/scholar-connect-sub004/internal/models"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

var _ storage.Store = (*memStore)(nil)

// memStore is an in-memory implementation of storage.Store with the same
// semantics as the real one (sequence assignment, monotonic statuses, cursor
// high-water marks), so commander/tracker/hub tests exercise real
// orchestration instead of scripted expectations.
type memStore struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      map[string][]*models.Message // conversationID -> ascending by seq
	cursors       map[string]int64             // conversationID|userID
	notifyPending map[string]bool

	Published []models.Event
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]*models.Message),
		cursors:       make(map[string]int64),
		notifyPending: make(map[string]bool),
	}
}

func (s *memStore) CreateConversation(_ context.Context, userA, userB string) (*models.Conversation, error) {
	if userA == userB {
		return nil, apperrors.ErrSelfConversation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	low, high := models.CanonicalPair(userA, userB)
	for _, conv := range s.conversations {
		if conv.UserLowID == low && conv.UserHighID == high {
			return conv, nil
		}
	}
	conv := &models.Conversation{ID: uuid.New().String(), UserLowID: low, UserHighID: high}
	s.conversations[conv.ID] = conv
	return conv, nil
}

func (s *memStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	clone := *conv
	return &clone, nil
}

func (s *memStore) ListConversationsForUser(_ context.Context, userID string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Conversation
	for _, conv := range s.conversations {
		if !conv.Archived && conv.HasParticipant(userID) {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (s *memStore) ArchiveConversation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return apperrors.ErrConversationNotFound
	}
	conv.Archived = true
	return nil
}

func (s *memStore) AppendMessage(_ context.Context, conversationID, senderID, body string) (*models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.ErrEmptyBody
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		return nil, apperrors.ErrConversationNotFound
	}
	if !conv.HasParticipant(senderID) {
		return nil, apperrors.ErrNotParticipant
	}
	conv.LastSequence++
	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Seq:            conv.LastSequence,
		SenderID:       senderID,
		Body:           body,
		Status:         models.StatusSent,
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	conv.LastMessagePreview = body
	return msg, nil
}

func (s *memStore) ListMessagesSince(_ context.Context, conversationID string, afterSeq int64, limit int) ([]models.Message, error) {
	if afterSeq < 0 {
		return nil, apperrors.ErrNegativeSequence
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, msg := range s.messages[conversationID] {
		if msg.Seq > afterSeq {
			out = append(out, *msg)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *memStore) GetReadCursor(_ context.Context, conversationID, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[conversationID+"|"+userID], nil
}

func (s *memStore) AdvanceReadCursor(_ context.Context, conversationID, userID string, seq int64) (int64, bool, error) {
	if seq < 0 {
		return 0, false, apperrors.ErrNegativeSequence
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := conversationID + "|" + userID
	if seq <= s.cursors[key] {
		return s.cursors[key], false, nil
	}
	s.cursors[key] = seq
	return seq, true, nil
}

func (s *memStore) MarkMessageDelivered(_ context.Context, conversationID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.messages[conversationID] {
		if msg.ID == messageID && msg.Status == models.StatusSent {
			msg.Status = models.StatusDelivered
		}
	}
	return nil
}

func (s *memStore) MarkMessagesDelivered(_ context.Context, conversationID, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.messages[conversationID] {
		if msg.SenderID != recipientID && msg.Status == models.StatusSent {
			msg.Status = models.StatusDelivered
		}
	}
	return nil
}

func (s *memStore) MarkMessagesRead(_ context.Context, conversationID, readerID string, upToSeq int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.messages[conversationID] {
		if msg.SenderID != readerID && msg.Seq <= upToSeq && msg.Status != models.StatusRead {
			msg.Status = models.StatusRead
		}
	}
	return nil
}

func (s *memStore) PublishEvent(_ context.Context, event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, event)
	return nil
}

func (s *memStore) SubscribeEvents(_ context.Context) *redis.PubSub {
	return &redis.PubSub{}
}

func (s *memStore) MarkNotifyPending(_ context.Context, conversationID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := conversationID + "|" + userID
	if s.notifyPending[key] {
		return false, nil
	}
	s.notifyPending[key] = true
	return true, nil
}

func (s *memStore) ClearNotifyPending(_ context.Context, conversationID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifyPending, conversationID+"|"+userID)
	return nil
}

// messageBySeq is a test helper reading the current status off the fake store.
func (s *memStore) messageBySeq(conversationID string, seq int64) *models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, msg := range s.messages[conversationID] {
		if msg.Seq == seq {
			clone := *msg
			return &clone
		}
	}
	return nil
}

// drainPublished moves recorded events out so a test can assert them in order.
func (s *memStore) drainPublished() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.Published
	s.Published = nil
	return out
}

// MockSession is a test double for the chathub.Session interface. Received
// events land in RecvChannel; a zero-capacity channel simulates a slow client.
type MockSession struct {
	id          string
	userID      string
	RecvChannel chan models.Event
}

func newMockSession(id, userID string) *MockSession {
	return &MockSession{
		id:          id,
		userID:      userID,
		RecvChannel: make(chan models.Event, 10),
	}
}

func (s *MockSession) SessionID() string { return s.id }
func (s *MockSession) UserID() string    { return s.userID }

func (s *MockSession) Deliver(event models.Event) bool {
	select {
	case s.RecvChannel <- event:
		return true
	default:
		return false
	}
}

func (s *MockSession) Run()   {}
func (s *MockSession) Close() {}

// drain collects everything delivered so far without blocking.
func (s *MockSession) drain() []models.Event {
	var events []models.Event
	for {
		select {
		case evt := <-s.RecvChannel:
			events = append(events, evt)
		default:
			return events
		}
	}
}

// mockNotifier records offline pings.
type mockNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *mockNotifier) NotifyOfflineRecipient(userID, conversationID, messageID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, userID+"|"+conversationID)
	return nil
}

func (n *mockNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// ensure the doubles satisfy their interfaces
var _ chathub.Session = (*MockSession)(nil)
