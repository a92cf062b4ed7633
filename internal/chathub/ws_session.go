package chathub

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/larrysaam/scholar-connect-sub004/internal/config"
	"github.com/larrysaam/scholar-connect-sub004/internal/models"
)

// WebSocketSession implements the Session interface over a gorilla websocket
// connection. One read pump decodes inbound commands and hands them to the
// commander; one write pump drains the bounded event queue.
type WebSocketSession struct {
	ID   string
	User string
	Conn *websocket.Conn

	Hub       *Hub
	Commander *Commander
	Send      chan models.Event
}

func NewWebSocketSession(id, userID string, conn *websocket.Conn, hub *Hub, commander *Commander) *WebSocketSession {
	return &WebSocketSession{
		ID:        id,
		User:      userID,
		Conn:      conn,
		Hub:       hub,
		Commander: commander,
		Send:      make(chan models.Event, config.SessionQueueSize),
	}
}

func (s *WebSocketSession) SessionID() string { return s.ID }
func (s *WebSocketSession) UserID() string    { return s.User }

// Deliver enqueues without blocking; a full queue drops the event for this
// session only.
func (s *WebSocketSession) Deliver(event models.Event) bool {
	select {
	case s.Send <- event:
		return true
	default:
		return false
	}
}

// Run starts the 'pumps' for the websocket connection.
func (s *WebSocketSession) Run() {
	go s.writePump()
	go s.readPump()
}

// Close closes the Send channel, which stops the write pump.
func (s *WebSocketSession) Close() {
	close(s.Send)
	// readPump stops on its own once Conn.Close() runs in its defer
}

func (s *WebSocketSession) readPump() {
	defer func() {
		// Deregistration completes before Close, so no publisher can still
		// hold a reference when the Send channel goes away.
		s.Hub.Unregister(s)
		s.Close()
		s.Conn.Close()
	}()

	s.Conn.SetReadLimit(config.MaxMessageSize)
	s.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
	s.Conn.SetPongHandler(func(string) error {
		s.Conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from session %s: %v", s.ID, err)
			}
			break
		}

		var cmd models.Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Printf("Error decoding command from session %s: %v", s.ID, err)
			continue // skip the malformed frame
		}

		s.Commander.Handle(context.Background(), s, cmd)
	}
}

func (s *WebSocketSession) writePump() {
	ticker := time.NewTicker(config.PingPeriod)

	defer func() {
		ticker.Stop()
		s.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.Send:
			s.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				// Channel closed by the hub, close the ws connection
				s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding event for session %s: %v", s.ID, err)
				continue
			}

			w, err := s.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush whatever else is already queued into the same frame batch
			n := len(s.Send)
			for i := 0; i < n; i++ {
				next := <-s.Send
				extra, _ := json.Marshal(next)
				w.Write([]byte{'\n'})
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
