package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/nba-live-sync/internal/domain"
	"github.com/preston-bernstein/nba-live-sync/internal/metrics"
)

func testClient(buffer int) *Client {
	return &Client{send: make(chan []byte, buffer)}
}

func TestBroadcastDeliversToAllSubscribers(t *testing.T) {
	h := NewHub(nil, metrics.NewRecorder())
	clients := []*Client{testClient(4), testClient(4), testClient(4)}
	for _, c := range clients {
		h.Register(c)
	}

	frame := []byte(`{"type":"game-update"}`)
	if delivered := h.Broadcast(frame); delivered != 3 {
		t.Fatalf("expected delivery to 3 subscribers, got %d", delivered)
	}

	for i, c := range clients {
		select {
		case got := <-c.send:
			if string(got) != string(frame) {
				t.Fatalf("client %d received %q", i, got)
			}
		default:
			t.Fatalf("client %d received nothing", i)
		}
	}
}

func TestBroadcastSkipsFullQueue(t *testing.T) {
	h := NewHub(nil, metrics.NewRecorder())
	healthy := testClient(4)
	stuck := testClient(1)
	stuck.send <- []byte("backlog")
	h.Register(healthy)
	h.Register(stuck)

	if delivered := h.Broadcast([]byte("update")); delivered != 1 {
		t.Fatalf("expected the stuck subscriber to be skipped, delivered=%d", delivered)
	}
	if got := <-healthy.send; string(got) != "update" {
		t.Fatalf("healthy client received %q", got)
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := NewHub(nil, metrics.NewRecorder())
	c := testClient(4)
	h.Register(c)
	h.Unregister(c)

	if h.ClientCount() != 0 {
		t.Fatalf("expected empty hub, got %d clients", h.ClientCount())
	}
	if delivered := h.Broadcast([]byte("update")); delivered != 0 {
		t.Fatalf("expected no delivery after unregister, got %d", delivered)
	}
	// The send queue is closed so the write pump can drain out.
	if _, open := <-c.send; open {
		t.Fatal("send queue should be closed after unregister")
	}
}

func TestUnregisterUnknownClientIsNoop(t *testing.T) {
	h := NewHub(nil, metrics.NewRecorder())
	h.Unregister(testClient(1))
	if h.ClientCount() != 0 {
		t.Fatalf("unexpected client count %d", h.ClientCount())
	}
}

func TestCloseDisconnectsAndRejectsNewClients(t *testing.T) {
	h := NewHub(nil, metrics.NewRecorder())
	existing := testClient(1)
	h.Register(existing)

	h.Close()
	if _, open := <-existing.send; open {
		t.Fatal("existing client's queue should be closed")
	}

	late := testClient(1)
	h.Register(late)
	if h.ClientCount() != 0 {
		t.Fatalf("closed hub accepted a registration, count=%d", h.ClientCount())
	}
	if _, open := <-late.send; open {
		t.Fatal("late client's queue should be closed immediately")
	}

	// Close is idempotent.
	h.Close()
}

func TestGameUpdateFrameShape(t *testing.T) {
	at := time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)
	g := domain.GameState{GameID: "0022300001", Status: domain.StatusLive, Period: 3}

	frame, err := GameUpdateFrame(g, at)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != TypeGameUpdate || env.Game == nil || env.Alert != nil {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.Game.GameID != "0022300001" || env.Timestamp != at.UnixMilli() {
		t.Fatalf("unexpected envelope fields %+v", env)
	}
}

func TestAlertFrameShape(t *testing.T) {
	at := time.Date(2024, 1, 15, 21, 45, 0, 0, time.UTC)
	a := domain.GameAlert{GameID: "0022300001", Kind: domain.AlertGameFinal, Message: "LAL @ BOS is final"}

	frame, err := AlertFrame(a, at)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != TypeAlert || env.Alert == nil || env.Game != nil {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if env.Alert.Kind != domain.AlertGameFinal || env.Timestamp != at.UnixMilli() {
		t.Fatalf("unexpected envelope fields %+v", env)
	}
}

func TestServeWSDeliversBroadcasts(t *testing.T) {
	h := NewHub(nil, metrics.NewRecorder())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(h, nil, w, r)
	}))
	defer srv.Close()
	defer h.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	defer resp.Body.Close()

	// Registration happens inside the upgrade handler; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	frame, err := GameUpdateFrame(domain.GameState{GameID: "0022300001", Status: domain.StatusLive}, time.Now())
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if delivered := h.Broadcast(frame); delivered != 1 {
		t.Fatalf("expected delivery to the dialed subscriber, got %d", delivered)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Type != TypeGameUpdate || env.Game == nil || env.Game.GameID != "0022300001" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
