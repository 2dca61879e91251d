package websocket

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

	"fleetflow/internal/events"
)

func TestHub_StreamsPublishedEvents(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	event := events.New(events.TripDispatched, "Trip dispatched")
	event.TripID = "trip-1"
	require.NoError(t, hub.Publish(context.Background(), event))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got events.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, events.TripDispatched, got.Type)
	assert.Equal(t, "trip-1", got.TripID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub()
	fast := &Client{ID: "fast", send: make(chan []byte, 1)}
	slow := &Client{ID: "slow", send: make(chan []byte)}
	hub.AddClient(fast)
	hub.AddClient(slow)

	hub.Broadcast([]byte("hello"))

	assert.Equal(t, 1, hub.Len())
	assert.Equal(t, []byte("hello"), <-fast.send)

	_, open := <-slow.send
	assert.False(t, open)
}

func TestHub_RemoveClientTwice(t *testing.T) {
	hub := NewHub()
	hub.AddClient(&Client{ID: "a", send: make(chan []byte, 1)})

	hub.RemoveClient("a")
	assert.NotPanics(t, func() { hub.RemoveClient("a") })
	assert.Zero(t, hub.Len())
}
