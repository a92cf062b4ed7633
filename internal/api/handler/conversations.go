package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ConversationSummary is the listing row, decorated with the peer's display
// name resolved from the user directory.
type ConversationSummary struct {
	ID                 string    `json:"id"`
	PeerID             string    `json:"peer_id"`
	PeerDisplayName    string    `json:"peer_display_name"`
	LastMessagePreview string    `json:"last_message_preview"`
	LastMessageAt      time.Time `json:"last_message_at"`
	LastSequence       int64     `json:"last_sequence"`
}

// ListConversations returns the caller's conversations, newest activity first.
func (h *Handler) ListConversations(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	convs, err := h.Store.ListConversationsForUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		peerID := conv.OtherParticipant(userID)
		name, err := h.Directory.ResolveDisplayName(c.Request.Context(), peerID)
		if err != nil {
			log.Printf("WARNING: Failed to resolve display name for %s: %v", peerID, err)
			name = peerID
		}
		summaries = append(summaries, ConversationSummary{
			ID:                 conv.ID,
			PeerID:             peerID,
			PeerDisplayName:    name,
			LastMessagePreview: conv.LastMessagePreview,
			LastMessageAt:      conv.LastMessageAt,
			LastSequence:       conv.LastSequence,
		})
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// CreateConversation opens (or returns) the conversation between the caller
// and the given peer. Both sides calling it concurrently get the same id.
func (h *Handler) CreateConversation(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	var req struct {
		PeerID string `json:"peer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "peer_id is required"})
		return
	}

	conv, err := h.Store.CreateConversation(c.Request.Context(), userID, req.PeerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// Catchup is the reconciliation pull: everything the caller missed in one
// conversation since their last known sequence, plus the cursor picture.
func (h *Handler) Catchup(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	after, err := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "after must be an integer"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	delta, err := h.Reconciler.Catchup(c.Request.Context(), c.Param("id"), userID, after, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, delta)
}
