package server

import (
	"encoding/json"

	"momskitchen/internal/models"
	"momskitchen/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// streamBuffer is how many snapshots may queue for one slow client before
// newer ones are dropped.
const streamBuffer = 16

// SessionEvent is one message on the session stream.
type SessionEvent struct {
	Type   string               `json:"type"`
	Status models.SessionStatus `json:"status"`
	State  models.AuthState     `json:"state"`
}

// streamClient queues outgoing frames for one connection.
type streamClient struct {
	send chan []byte
}

// TrySend queues msg without blocking and reports whether it fit.
func (c *streamClient) TrySend(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func encodeSessionEvent(state models.AuthState) []byte {
	msg, _ := json.Marshal(SessionEvent{Type: "auth_state", Status: state.Status(), State: state})
	return msg
}

func (s *Server) upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// SessionStreamHandler pushes every session snapshot to the connected client,
// starting with the current one.
func (s *Server) SessionStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &streamClient{send: make(chan []byte, streamBuffer)}

		unsubscribe := s.session.Subscribe(func(state models.AuthState) {
			if !client.TrySend(encodeSessionEvent(state)) {
				observability.SessionStreamDrops.Inc()
			}
		})
		defer unsubscribe()
		client.TrySend(encodeSessionEvent(s.session.AuthState()))

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case msg := <-client.send:
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-closed:
				return
			case <-s.shutdownCtx.Done():
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
		}
	})
}
