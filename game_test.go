package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestHub builds a hub backed by the bundled catalogs (no remote
// endpoint configured, so Load falls back to defaults immediately).
func newTestHub(t *testing.T, gameID string) *Hub {
	t.Helper()

	remote := newRemoteConfig(testConfig(""))
	remote.Load(context.Background())

	return newHub(gameID, remote)
}

func recvMessage(t *testing.T, c *Client) any {
	t.Helper()

	select {
	case msg := <-c.send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message from hub")
		return nil
	}
}

func Test_Hub_RegisterSendsStateAndCard(t *testing.T) {
	hub := newTestHub(t, "test0001")
	go hub.run(context.Background(), &Config{})

	client := &Client{send: make(chan any, 8)}
	hub.register <- client

	state, ok := recvMessage(t, client).(SessionStateMessage)
	if !ok {
		t.Fatal("first message must be the session state")
	}
	if len(state.Players) != 3 || state.MaxDrinks != 3 {
		t.Errorf("unexpected initial state: %+v", state)
	}
	if len(state.Modes) == 0 {
		t.Error("mode listings missing from session state")
	}

	card, ok := recvMessage(t, client).(CardMessage)
	if !ok {
		t.Fatal("second message must be the card")
	}
	if card.Rule != nil || card.EmptyState == "" {
		t.Errorf("expected the empty-state card before any draw, got %+v", card)
	}
}

func Test_Hub_OpsDriveSession(t *testing.T) {
	hub := newTestHub(t, "test0002")
	ctx := context.Background()
	cfg := &Config{}

	hub.handleOp(ctx, cfg, opRequest{msg: ClientMessage{Type: "add_player"}})
	if got := len(hub.session.Players()); got != 4 {
		t.Errorf("got %d players after add_player, want 4", got)
	}

	hub.handleOp(ctx, cfg, opRequest{msg: ClientMessage{Type: "select_mode", ModeID: "classic"}})
	if got := hub.session.SelectedModeID(); got != "classic" {
		t.Errorf("got mode %q, want classic", got)
	}

	value := 5.0
	hub.handleOp(ctx, cfg, opRequest{msg: ClientMessage{Type: "set_max_drinks", Value: &value}})
	if got := hub.session.MaxDrinks(); got != 5 {
		t.Errorf("got max drinks %d, want 5", got)
	}

	hub.handleOp(ctx, cfg, opRequest{msg: ClientMessage{Type: "next_card"}})
	hub.mu.RLock()
	rule := hub.currentRule
	hub.mu.RUnlock()
	if rule == nil {
		t.Fatal("next_card left no compiled rule")
	}
	if rule.Drinks < 1 || rule.Drinks > 5 {
		t.Errorf("drinks %d out of bounds", rule.Drinks)
	}

	hub.handleOp(ctx, cfg, opRequest{msg: ClientMessage{Type: "set_language", Language: "fr"}})
	if got := hub.session.Language(); got != LanguageFR {
		t.Errorf("got language %s, want fr", got)
	}

	hub.handleOp(ctx, cfg, opRequest{msg: ClientMessage{Type: "set_language", Language: "de"}})
	if got := hub.session.Language(); got != LanguageFR {
		t.Errorf("unsupported language accepted: %s", got)
	}
}

func Test_Hub_OpBroadcastsSessionState(t *testing.T) {
	hub := newTestHub(t, "test0003")

	client := &Client{send: make(chan any, 8)}
	hub.clients[client] = true

	hub.handleOp(context.Background(), &Config{}, opRequest{msg: ClientMessage{Type: "add_player"}})

	state, ok := recvMessage(t, client).(SessionStateMessage)
	if !ok {
		t.Fatal("expected a session state broadcast")
	}
	if len(state.Players) != 4 {
		t.Errorf("broadcast carries %d players, want 4", len(state.Players))
	}
}

func Test_Hub_ReloadConfigDoesNotBlockOps(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	defer close(release)

	remote := newRemoteConfig(testConfig(srv.URL))
	hub := newHub("test0004", remote)
	go hub.run(context.Background(), &Config{})

	client := &Client{send: make(chan any, 8)}
	hub.register <- client
	recvMessage(t, client)
	recvMessage(t, client)

	// The fetch is parked on the release channel; session ops must
	// still be serviced while it is in flight.
	hub.ops <- opRequest{msg: ClientMessage{Type: "reload_config"}}
	hub.ops <- opRequest{msg: ClientMessage{Type: "add_player"}}

	state, ok := recvMessage(t, client).(SessionStateMessage)
	if !ok {
		t.Fatal("expected a session state broadcast while the reload is in flight")
	}
	if len(state.Players) != 4 {
		t.Errorf("broadcast carries %d players, want 4", len(state.Players))
	}
}

func Test_GameManager_ReapsIdleHubs(t *testing.T) {
	remote := newRemoteConfig(testConfig(""))
	remote.Load(context.Background())

	gm := newGameManager(context.Background(), remote, 20*time.Millisecond)
	gm.getHub(&Config{}, "idle0001")

	time.Sleep(120 * time.Millisecond)

	gm.mu.Lock()
	_, exists := gm.hubs["idle0001"]
	gm.mu.Unlock()
	if exists {
		t.Error("idle hub survived the reaper")
	}
}

func Test_GameManager_NewGameID(t *testing.T) {
	remote := newRemoteConfig(testConfig(""))
	gm := newGameManager(context.Background(), remote, 0)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := gm.newGameID()
		if len(id) != 8 {
			t.Fatalf("bad id length %q", id)
		}
		for _, r := range id {
			alpha := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
			if !alpha {
				t.Fatalf("bad character %q in id %q", r, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
