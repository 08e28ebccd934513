package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/novelforge/tracker/internal/app"
	"github.com/novelforge/tracker/internal/project"
	"github.com/novelforge/tracker/internal/record"
	"github.com/novelforge/tracker/internal/snapshot"
	"github.com/novelforge/tracker/internal/stats"
	"github.com/novelforge/tracker/internal/store"
)

func newTestServer(t *testing.T) (*Server, *app.Tracker) {
	t.Helper()

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "tracker.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.ReplaceCollection(record.Chapters, []record.Record{
		{"#": "1", "title": "The Ash Road", "status": "Draft", "word_count": 1500, "start_words": 1300},
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	snaps := snapshot.New(filepath.Join(dir, "snapshots"), snapshot.DefaultRetention)
	tracker := app.New(st, snaps, project.Default(), nil)

	server := NewServer(tracker, &Config{
		Port:   0, // random available port
		Logger: log.New(os.Stderr, "[test] ", log.LstdFlags),
	})

	if err := server.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Stop(); err != nil {
			t.Errorf("Stop() error: %v", err)
		}
	})

	time.Sleep(100 * time.Millisecond)
	return server, tracker
}

func TestServerStartStop(t *testing.T) {
	server, _ := newTestServer(t)

	if server.GetAddr() == "" {
		t.Fatal("server address is empty")
	}

	resp, err := http.Get("http://" + server.GetAddr() + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get("http://" + server.GetAddr() + "/api/summary")
	if err != nil {
		t.Fatalf("GET /api/summary failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	var summary stats.Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("unmarshal summary: %v\nbody: %s", err, body)
	}
	if summary.TotalWords != 1500 || summary.Delta != 200 {
		t.Errorf("summary = %+v, want 1500 total and +200 delta", summary)
	}
}

func TestCollectionEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(fmt.Sprintf("http://%s/api/collections/%s", server.GetAddr(), record.Chapters))
	if err != nil {
		t.Fatalf("GET collection failed: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Collection string          `json:"collection"`
		Records    []record.Record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode collection: %v", err)
	}
	if payload.Collection != record.Chapters {
		t.Errorf("collection name = %q", payload.Collection)
	}
	if len(payload.Records) != 1 || payload.Records[0].String("title") != "The Ash Road" {
		t.Errorf("collection = %v", payload.Records)
	}
}

func TestWebSocketWelcomeSummary(t *testing.T) {
	server, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+server.GetAddr()+"/ws", nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	if count := server.ClientCount(); count != 1 {
		t.Errorf("ClientCount() = %d, want 1", count)
	}

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read welcome message: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.Type != MessageTypeSummary {
		t.Errorf("welcome message type = %s, want %s", msg.Type, MessageTypeSummary)
	}

	var summary stats.Summary
	if err := json.Unmarshal(msg.Data, &summary); err != nil {
		t.Fatalf("unmarshal summary payload: %v", err)
	}
	if summary.TotalWords != 1500 {
		t.Errorf("welcome summary TotalWords = %d", summary.TotalWords)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	server, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const numClients = 3
	conns := make([]*websocket.Conn, numClients)
	for i := range conns {
		conn, _, err := websocket.Dial(ctx, "ws://"+server.GetAddr()+"/ws", nil)
		if err != nil {
			t.Fatalf("client %d dial failed: %v", i, err)
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		conns[i] = conn

		// Drain the welcome summary.
		if _, _, err := conn.Read(ctx); err != nil {
			t.Fatalf("client %d welcome read failed: %v", i, err)
		}
	}

	server.Broadcast(Message{Type: MessageTypeStoreChanged})

	// Every connection triggers a summary broadcast to all clients, so
	// earlier clients may have extra summaries queued ahead of the
	// store_changed message.
	for i, conn := range conns {
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				t.Fatalf("client %d broadcast read failed: %v", i, err)
			}
			var msg Message
			if err := json.Unmarshal(data, &msg); err != nil {
				t.Fatalf("client %d unmarshal failed: %v", i, err)
			}
			if msg.Type == MessageTypeStoreChanged {
				break
			}
		}
	}
}
