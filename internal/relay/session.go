package relay

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// sendQueueSize bounds the per-subscriber outbound queue. A subscriber that
// falls further behind loses samples instead of stalling the hub.
const sendQueueSize = 32

// LocationEvent is the payload fanned out to an order's subscribers.
type LocationEvent struct {
	Event     string  `json:"event"`
	OrderID   string  `json:"order_id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp string  `json:"timestamp"`
}

// Session is one live websocket connection. Room membership lives in the Hub;
// the session only owns its connection and outbound queue.
type Session struct {
	conn      *websocket.Conn
	send      chan LocationEvent
	closeOnce sync.Once
}

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		conn: conn,
		send: make(chan LocationEvent, sendQueueSize),
	}
}

// deliver queues evt without blocking and reports whether it was accepted.
func (s *Session) deliver(evt LocationEvent) bool {
	select {
	case s.send <- evt:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.send) })
}

// WritePump drains the outbound queue to the websocket. Run it in its own
// goroutine; it returns once the session is closed or the connection breaks.
func (s *Session) WritePump() {
	for evt := range s.send {
		if err := s.conn.WriteJSON(evt); err != nil {
			logrus.WithError(err).WithField("order_id", evt.OrderID).
				Debug("Failed to write location event, stopping session writer.")
			return
		}
	}
}
