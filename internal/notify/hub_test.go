package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub, userID uuid.UUID) *httptest.Server {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(userID, conn).Serve()
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHubPublish(t *testing.T) {
	hub := NewHub(8, time.Second)
	userID := uuid.New()
	server := newHubServer(t, hub, userID)

	first := dial(t, server)
	defer first.Close()
	second := dial(t, server)
	defer second.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 2 }, 2*time.Second, 10*time.Millisecond)

	delivered := hub.Publish(userID, []byte(`{"type":"team_join"}`))
	assert.Equal(t, 2, delivered)

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"team_join"}`, string(msg))
	}
}

func TestHubPublishWithoutConnections(t *testing.T) {
	hub := NewHub(8, time.Second)
	assert.Equal(t, 0, hub.Publish(uuid.New(), []byte("{}")))
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub := NewHub(8, time.Second)
	userID := uuid.New()
	server := newHubServer(t, hub, userID)

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubFullBufferDropsMessage(t *testing.T) {
	hub := NewHub(1, time.Second)
	userID := uuid.New()

	// A client that is never served keeps its buffered message
	client := hub.Register(userID, nil)
	assert.Equal(t, 1, hub.Publish(userID, []byte("one")))
	assert.Equal(t, 0, hub.Publish(userID, []byte("two")))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ConnectionCount(userID))

	// Unregistering twice is safe
	hub.Unregister(client)
}
