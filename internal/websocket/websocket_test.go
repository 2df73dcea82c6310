package websocket_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/mpreston/teamsync/internal/logger"
	"github.com/mpreston/teamsync/internal/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastStateUpdated(t *testing.T) {
	hub := websocket.New(logger.New())
	hub.Start()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer srv.Close()

	conn := dial(t, srv)
	// Give the hub a beat to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)

	updated := time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)
	hub.BroadcastStateUpdated("AB12", updated)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var msg struct {
		Type    string `json:"type"`
		Payload struct {
			TeamCode    string `json:"teamCode"`
			LastUpdated string `json:"lastUpdated"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}
	if msg.Type != "state_updated" {
		t.Errorf("expected type state_updated, got %q", msg.Type)
	}
	if msg.Payload.TeamCode != "AB12" {
		t.Errorf("expected teamCode AB12, got %q", msg.Payload.TeamCode)
	}
	got, err := time.Parse(time.RFC3339Nano, msg.Payload.LastUpdated)
	if err != nil || !got.Equal(updated) {
		t.Errorf("expected lastUpdated %v, got %q (%v)", updated, msg.Payload.LastUpdated, err)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := websocket.New(logger.New())
	hub.Start()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer srv.Close()

	first := dial(t, srv)
	second := dial(t, srv)
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastStateUpdated("AB12", time.Now())

	for i, conn := range []*gorilla.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Errorf("client %d missed the broadcast: %v", i, err)
		}
	}
}
