package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"delivery_tracker/internal/middleware"
	"delivery_tracker/internal/relay"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// socketMessage is the client -> server envelope on the event channel.
// Lat/Lng are pointers so a missing field is distinguishable from zero.
type socketMessage struct {
	Event   string   `json:"event"`
	OrderID string   `json:"order_id"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// WebSocketController owns the event channel endpoint. The hub is handed in
// at construction; there is no process-wide socket registry.
type WebSocketController struct {
	hub *relay.Hub
}

func NewWebSocketController(hub *relay.Hub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// HandleLocationWebSocket upgrades the connection and serves the event
// channel: `order:join` subscribes the session to an order's group,
// `location:update` records a sample and fans it out to the group.
// Malformed envelopes and invalid samples are dropped without a reply.
func (wc *WebSocketController) HandleLocationWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}
	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt with invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	sess := relay.NewSession(conn)
	wc.hub.Register(sess)
	defer wc.hub.Unregister(sess)
	go sess.WritePump()

	logrus.WithFields(logrus.Fields{
		"user_id": claims.UserID,
		"role":    claims.Role,
	}).Info("WebSocket session established.")

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("user_id", claims.UserID).Info("WebSocket session closed.")
			} else {
				logrus.WithError(err).WithField("user_id", claims.UserID).Error("Error reading WebSocket message.")
			}
			break
		}

		var msg socketMessage
		if err := json.Unmarshal(p, &msg); err != nil {
			logrus.WithField("user_id", claims.UserID).Debug("Dropping malformed socket message.")
			continue
		}

		switch msg.Event {
		case "order:join":
			wc.hub.Join(sess, msg.OrderID)
		case "location:update":
			if msg.Lat == nil || msg.Lng == nil {
				logrus.WithField("user_id", claims.UserID).Debug("Dropping location update with missing coordinates.")
				continue
			}
			// The request context dies with the upgrade; store writes get
			// their own.
			wc.hub.RecordAndBroadcast(context.Background(), msg.OrderID, *msg.Lat, *msg.Lng)
		default:
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID,
				"event":   msg.Event,
			}).Debug("Dropping socket message with unknown event.")
		}
	}
}
