// Package relay manages per-order subscriber groups and broadcasts driver
// location samples to them, persisting each accepted sample first.
package relay

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"delivery_tracker/internal/observability"
	"delivery_tracker/internal/store"
)

// Hub owns the subscriber groups, keyed by order id. It is constructed once
// and handed to whatever accepts connections; there is deliberately no
// package-level instance.
//
// Membership is permissive on purpose: any connected session may join any
// order's group and publish to it, matching the system this replaces.
// Requiring the joining identity to be the order's customer or assigned
// driver is a known tightening left open.
type Hub struct {
	locations store.LocationStore

	mu      sync.Mutex
	rooms   map[string]map[*Session]bool
	members map[*Session]map[string]bool

	broadcast chan LocationEvent
}

func NewHub(locations store.LocationStore) *Hub {
	h := &Hub{
		locations: locations,
		rooms:     make(map[string]map[*Session]bool),
		members:   make(map[*Session]map[string]bool),
		broadcast: make(chan LocationEvent, 100),
	}
	go h.run()
	return h
}

// run fans each event out to the order's subscribers. A single channel feeds
// it, so events from one sender reach every subscriber in the order they were
// recorded.
func (h *Hub) run() {
	for evt := range h.broadcast {
		h.mu.Lock()
		for sess := range h.rooms[evt.OrderID] {
			if !sess.deliver(evt) {
				observability.BroadcastsDropped.Inc()
				logrus.WithField("order_id", evt.OrderID).
					Warn("Subscriber send queue full, dropping location event.")
			}
		}
		h.mu.Unlock()
	}
}

// Register adds a new session with no memberships.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.members[s] = make(map[string]bool)
	observability.LiveSessions.Inc()
}

// Join subscribes the session to an order's group. Empty ids are ignored;
// repeated joins are no-ops.
func (h *Hub) Join(s *Session, orderID string) {
	if strings.TrimSpace(orderID) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	orders, ok := h.members[s]
	if !ok {
		return
	}
	if _, ok := h.rooms[orderID]; !ok {
		h.rooms[orderID] = make(map[*Session]bool)
	}
	h.rooms[orderID][s] = true
	orders[orderID] = true
}

// Unregister removes the session from every group it joined and closes its
// outbound queue. Safe to call more than once.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	orders, ok := h.members[s]
	if !ok {
		return
	}
	for orderID := range orders {
		delete(h.rooms[orderID], s)
		if len(h.rooms[orderID]) == 0 {
			delete(h.rooms, orderID)
		}
	}
	delete(h.members, s)
	s.close()
	observability.LiveSessions.Dec()
}

// RecordAndBroadcast persists one location sample and fans it out to the
// order's subscribers. Invalid samples are dropped without surfacing an error
// to the sender. A failed append also drops the broadcast: unpersisted data
// is never fanned out.
func (h *Hub) RecordAndBroadcast(ctx context.Context, orderID string, lat, lng float64) {
	if strings.TrimSpace(orderID) == "" || !finite(lat) || !finite(lng) {
		logrus.WithFields(logrus.Fields{
			"order_id": orderID,
			"lat":      lat,
			"lng":      lng,
		}).Debug("Dropping invalid location sample.")
		return
	}

	now := time.Now().UTC()
	if err := h.locations.Append(ctx, orderID, lat, lng, now); err != nil {
		logrus.WithError(err).WithField("order_id", orderID).
			Error("Failed to persist location sample, dropping broadcast.")
		return
	}
	observability.LocationSamples.Inc()

	evt := LocationEvent{
		Event:     "location:update",
		OrderID:   orderID,
		Lat:       lat,
		Lng:       lng,
		Timestamp: now.Format(time.RFC3339Nano),
	}
	select {
	case h.broadcast <- evt:
	default:
		observability.BroadcastsDropped.Inc()
		logrus.WithField("order_id", orderID).
			Warn("Broadcast channel full, dropping location event.")
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
