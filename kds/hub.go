// Package kds pushes kitchen and captain notifications to websocket displays.
package kds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

const defaultWriteWait = 5 * time.Second

type subscriber struct {
	role     string
	branchID string
}

// Hub holds the connected display clients, keyed by connection.
type Hub struct {
	clients map[*websocket.Conn]subscriber
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]subscriber)}
}

// RegisterClient subscribes conn to messages for (branchID, role).
func (h *Hub) RegisterClient(conn *websocket.Conn, role, branchID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = subscriber{role: role, branchID: branchID}
}

// UnregisterClient drops conn and closes it.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.remove(conn)
}

func (h *Hub) remove(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// Count returns the number of registered clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast writes n to every client of its branch and channel. Clients whose
// write fails are unregistered.
func (h *Hub) Broadcast(ctx context.Context, n services.Notification) error {
	data, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	deadline := time.Now().Add(defaultWriteWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for conn, sub := range h.clients {
		if sub.role != n.Channel || sub.branchID != n.BranchID {
			continue
		}
		conn.SetWriteDeadline(deadline)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{
				"role":      sub.role,
				"branch_id": sub.branchID,
			}).Warn("dropping stale websocket client")
			h.remove(conn)
			continue
		}
		sent++
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"channel":   n.Channel,
		"branch_id": n.BranchID,
		"clients":   sent,
	}).Debug("notification broadcast")
	return nil
}
