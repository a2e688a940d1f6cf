package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestWebSocketHubBroadcastsEvents(t *testing.T) {
	hub := NewWebSocketHub(arbor.NewLogger())
	defer hub.Close()

	server := httptest.NewServer(http.HandlerFunc(hub.WebSocketHandler))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.SendEvent("report_started", map[string]interface{}{"board": "7"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "report_started", msg.Type)
	assert.Equal(t, "7", msg.Data["board"])
}

func TestWebSocketHubClose(t *testing.T) {
	hub := NewWebSocketHub(arbor.NewLogger())
	hub.Close()
	hub.Close()

	// publishing after close never blocks
	for i := 0; i < 300; i++ {
		hub.SendStatus("online")
	}
	assert.Equal(t, 0, hub.ClientCount())
}
