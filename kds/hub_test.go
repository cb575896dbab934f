package kds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein/services"
	"github.com/yeremiapane/dinein/utils"
)

// hubServer registers every upgraded connection under the role and branch
// given in the query string.
func hubServer(t *testing.T, hub *Hub) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.RegisterClient(conn, r.URL.Query().Get("role"), r.URL.Query().Get("branch"))
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url, role, branch string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"?role="+role+"&branch="+branch, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesMatchingSubscribersOnly(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub)

	kitchenA := dial(t, url, utils.RoleKitchen, "a")
	captainA := dial(t, url, utils.RoleCaptain, "a")
	kitchenB := dial(t, url, utils.RoleKitchen, "b")
	require.Eventually(t, func() bool { return hub.Count() == 3 }, time.Second, 10*time.Millisecond)

	err := hub.Broadcast(context.Background(), services.Notification{
		BranchID: "a",
		Channel:  services.ChannelKitchen,
		Payload:  map[string]string{"type": services.EventNewOrder},
	})
	require.NoError(t, err)

	require.NoError(t, kitchenA.SetReadDeadline(time.Now().Add(time.Second)))
	var got map[string]string
	require.NoError(t, kitchenA.ReadJSON(&got))
	assert.Equal(t, services.EventNewOrder, got["type"])

	for _, idle := range []*websocket.Conn{captainA, kitchenB} {
		require.NoError(t, idle.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
		_, _, err := idle.ReadMessage()
		assert.Error(t, err, "unexpected message for another channel or branch")
	}
}

func TestBroadcastDropsClosedClients(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub)

	conn := dial(t, url, utils.RoleCaptain, "a")
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	// closing every server side connection makes the next write fail
	hub.mutex.Lock()
	for c := range hub.clients {
		c.UnderlyingConn().Close()
	}
	hub.mutex.Unlock()
	conn.Close()

	n := services.Notification{BranchID: "a", Channel: services.ChannelCaptain, Payload: "ping"}
	require.NoError(t, hub.Broadcast(context.Background(), n))
	assert.Equal(t, 0, hub.Count())
}

func TestBroadcastRejectsUnencodablePayload(t *testing.T) {
	hub := NewHub()
	err := hub.Broadcast(context.Background(), services.Notification{Payload: make(chan int)})
	assert.Error(t, err)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	url := hubServer(t, hub)
	dial(t, url, utils.RoleKitchen, "a")
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.mutex.Lock()
	var conn *websocket.Conn
	for c := range hub.clients {
		conn = c
	}
	hub.mutex.Unlock()

	hub.UnregisterClient(conn)
	hub.UnregisterClient(conn)
	assert.Equal(t, 0, hub.Count())
}
