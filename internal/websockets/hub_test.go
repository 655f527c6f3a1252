package websockets

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConnPair returns both ends of a real websocket connection: the
// server-side conn a Client would own, and the dialer's peer.
func testConnPair(t *testing.T) (server, peer *websocket.Conn) {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { peer.Close() })

	server = <-conns
	t.Cleanup(func() { server.Close() })
	return server, peer
}

func receiveMessage(t *testing.T, client *Client) Message {
	t.Helper()

	select {
	case raw, ok := <-client.send:
		require.True(t, ok, "send channel closed while waiting for a message")
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a hub message")
		return Message{}
	}
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	serverConn, peer := testConnPair(t)
	slow := NewClient(hub, serverConn, "user-1", ClientTypeEmployee)
	hub.register <- slow
	hub.RegisterDepartmentClient(slow, "dept-1")

	// No write pump is running, so the buffer fills and overflows.
	for i := 0; i <= cap(slow.send); i++ {
		hub.BroadcastEvent(TypeRequestCreated, "", struct {
			N int `json:"n"`
		}{N: i})
	}

	// Department-scoped and global broadcasts racing from two goroutines,
	// the way two handlers would deliver them.
	var wg sync.WaitGroup
	for _, departmentID := range []string{"dept-1", ""} {
		wg.Add(1)
		go func(departmentID string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				hub.BroadcastEvent(TypeRequestApproved, departmentID, struct {
					N int `json:"n"`
				}{N: i})
			}
		}(departmentID)
	}
	wg.Wait()

	// Dropping the client closes its connection, which the peer observes.
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := peer.ReadMessage()
	assert.Error(t, err, "the dropped client's connection must be closed")

	// The hub keeps serving clients registered afterwards.
	freshConn, _ := testConnPair(t)
	fresh := NewClient(hub, freshConn, "user-2", ClientTypeEmployee)
	hub.register <- fresh
	hub.BroadcastEvent(TypePong, "", nil)
	assert.Equal(t, TypePong, receiveMessage(t, fresh).Type)
}

func TestHub_DepartmentEventsDeliveredOnce(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscriberConn, _ := testConnPair(t)
	subscriber := NewClient(hub, subscriberConn, "user-1", ClientTypeEmployee)
	hub.register <- subscriber
	hub.RegisterDepartmentClient(subscriber, "dept-1")

	observerConn, _ := testConnPair(t)
	observer := NewClient(hub, observerConn, "user-2", ClientTypeAdmin)
	hub.register <- observer

	hub.BroadcastEvent(TypeRequestCreated, "dept-1", struct {
		ID string `json:"id"`
	}{ID: "r-1"})
	hub.BroadcastEvent(TypePong, "", nil)

	first := receiveMessage(t, subscriber)
	assert.Equal(t, TypeRequestCreated, first.Type)
	assert.Equal(t, "dept-1", first.DepartmentID)

	second := receiveMessage(t, subscriber)
	assert.Equal(t, TypePong, second.Type, "subscribers receive each department event exactly once")

	// Unscoped clients see the department event too, once.
	assert.Equal(t, TypeRequestCreated, receiveMessage(t, observer).Type)
	assert.Equal(t, TypePong, receiveMessage(t, observer).Type)
}

func TestHub_ScopedClientSkipsOtherDepartments(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	serverConn, _ := testConnPair(t)
	client := NewClient(hub, serverConn, "user-1", ClientTypeEmployee)
	hub.register <- client
	hub.RegisterDepartmentClient(client, "dept-2")

	hub.BroadcastEvent(TypeRequestCreated, "dept-1", struct {
		ID string `json:"id"`
	}{ID: "r-1"})
	hub.BroadcastEvent(TypePong, "", nil)

	assert.Equal(t, TypePong, receiveMessage(t, client).Type, "events for other departments are skipped")
}

func TestHub_UnregisterCleansUp(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	serverConn, _ := testConnPair(t)
	client := NewClient(hub, serverConn, "user-1", ClientTypeEmployee)
	hub.register <- client
	hub.RegisterDepartmentClient(client, "dept-1")

	hub.unregister <- client

	select {
	case _, ok := <-client.send:
		assert.False(t, ok, "unregister closes the send channel")
	case <-time.After(2 * time.Second):
		t.Fatal("send channel was not closed")
	}

	// A department event after unregister must not reach the closed channel.
	hub.BroadcastEvent(TypeRequestCreated, "dept-1", struct {
		ID string `json:"id"`
	}{ID: "r-1"})

	// Unregistering twice is a no-op.
	hub.unregister <- client

	freshConn, _ := testConnPair(t)
	fresh := NewClient(hub, freshConn, "user-2", ClientTypeEmployee)
	hub.register <- fresh
	hub.BroadcastEvent(TypePong, "", nil)
	assert.Equal(t, TypePong, receiveMessage(t, fresh).Type)
}
