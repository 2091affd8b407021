// Rabatize party game
//
// A group gathers around one shared screen, enters player names, picks
// a game mode, then draws randomized rule cards naming players and a
// drink count. Rule templates and game modes come from bundled
// defaults, optionally overridden by a remotely fetched config.
//
// Features:
// - WebSockets per game ID: /play/:gameid and /play/:gameid/ws
// - All session operations (roster edits, mode select, drink bound,
//   card draws, drink tally) travel over the socket
// - Players identified by cookie (playerID)
// - Sessions auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current session, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"log"
	mrand "math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from clients
type ClientMessage struct {
	Type     string   `json:"type"`               // operation name
	Index    *int     `json:"index,omitempty"`    // update_player / remove_player / adjust_drinks
	Name     string   `json:"name,omitempty"`     // update_player
	ModeID   string   `json:"mode_id,omitempty"`  // select_mode
	Value    *float64 `json:"value,omitempty"`    // set_max_drinks
	Delta    *int     `json:"delta,omitempty"`    // adjust_drinks
	Player   string   `json:"player,omitempty"`   // record_drink
	Amount   *int     `json:"amount,omitempty"`   // record_drink
	Language string   `json:"language,omitempty"` // set_language
}

// ModeListing is one selectable mode, already localized for the
// session's language.
type ModeListing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// SessionStateMessage mirrors the full session to every client after
// each mutation.
type SessionStateMessage struct {
	Type          string            `json:"type"` // "session_state"
	Players       []string          `json:"players"`
	ActivePlayers []string          `json:"active_players"`
	ModeID        string            `json:"mode_id,omitempty"`
	ModeName      string            `json:"mode_name,omitempty"`
	ModeTagline   string            `json:"mode_tagline,omitempty"`
	MaxDrinks     int               `json:"max_drinks"`
	Language      Language          `json:"language"`
	Stats         []PlayerDrinkStat `json:"stats"`
	TotalDrinks   int               `json:"total_drinks"`
	Modes         []ModeListing     `json:"modes"`
}

// CardMessage carries the current compiled rule, or the localized
// empty-state text when no rule can be compiled.
type CardMessage struct {
	Type       string        `json:"type"` // "card"
	Rule       *CompiledRule `json:"rule,omitempty"`
	EmptyState string        `json:"empty_state,omitempty"`
}

// ConfigStateMessage reports the remote config resolver state after a
// reload_config operation.
type ConfigStateMessage struct {
	Type   string             `json:"type"` // "config_state"
	Status RemoteConfigStatus `json:"status"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type opRequest struct {
	client *Client
	msg    ClientMessage
}

// Hub owns one game session: its state, its current card, and the set
// of connected clients. All operations funnel through the run loop, so
// session mutation and the PRNG see no concurrent access.
type Hub struct {
	id      string
	clients map[*Client]bool
	session *Session
	remote  *RemoteConfig
	rng     *mrand.Rand

	register chan *Client
	unreg    chan *Client
	ops      chan opRequest

	mu sync.RWMutex

	createdAt   time.Time
	lastActive  time.Time
	currentRule *CompiledRule
}

func newHub(gameID string, remote *RemoteConfig) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		clients:    make(map[*Client]bool),
		session:    newSession(),
		remote:     remote,
		rng:        newRand(),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		ops:        make(chan opRequest),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(ctx context.Context, cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.mu.Unlock()

			c.send <- h.sessionStateMessage()
			c.send <- h.cardMessage()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case op := <-h.ops:
			h.handleOp(ctx, cfg, op)
		}
	}
}

func (h *Hub) sessionStateMessage() SessionStateMessage {
	language := h.session.Language()
	stats := h.session.PlayerStats()

	totalDrinks := 0
	for _, stat := range stats {
		totalDrinks += stat.Drinks
	}

	catalog := h.remote.GameModes()
	modes := make([]ModeListing, 0, len(catalog))
	for _, mode := range catalog {
		modeCopy := gameModeCopy(mode, language)
		modes = append(modes, ModeListing{
			ID:          mode.ID,
			Name:        modeCopy.Name,
			Tagline:     modeCopy.Tagline,
			Description: modeCopy.Description,
		})
	}

	msg := SessionStateMessage{
		Type:          "session_state",
		Players:       h.session.Players(),
		ActivePlayers: h.session.ActivePlayers(),
		ModeID:        h.session.SelectedModeID(),
		MaxDrinks:     h.session.MaxDrinks(),
		Language:      language,
		Stats:         stats,
		TotalDrinks:   totalDrinks,
		Modes:         modes,
	}

	if mode, ok := h.remote.GameMode(msg.ModeID); ok {
		modeCopy := gameModeCopy(mode, language)
		msg.ModeName = modeCopy.Name
		msg.ModeTagline = modeCopy.Tagline
	}

	return msg
}

func (h *Hub) cardMessage() CardMessage {
	h.mu.RLock()
	rule := h.currentRule
	h.mu.RUnlock()

	if rule == nil {
		return CardMessage{
			Type:       "card",
			EmptyState: tr(h.session.Language(), "game.emptyState", nil),
		}
	}

	return CardMessage{
		Type: "card",
		Rule: rule,
	}
}

func (h *Hub) broadcast(msg any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

// nextCard compiles a fresh rule from the latest session state and the
// latest resolved catalogs.
func (h *Hub) nextCard() {
	rule := compileRule(
		h.rng,
		h.session.ActivePlayers(),
		h.session.MaxDrinks(),
		h.session.SelectedModeID(),
		h.session.Language(),
		h.remote.RuleTemplates(),
	)

	h.mu.Lock()
	h.currentRule = rule
	h.mu.Unlock()
}

func (h *Hub) handleOp(ctx context.Context, cfg *Config, op opRequest) {
	msg := op.msg

	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()

	stateChanged := true
	cardChanged := false

	switch msg.Type {
	case "update_player":
		if msg.Index == nil {
			return
		}
		h.session.UpdatePlayer(*msg.Index, msg.Name)

	case "add_player":
		h.session.AddPlayer()

	case "remove_player":
		if msg.Index == nil {
			return
		}
		h.session.RemovePlayer(*msg.Index)

	case "select_mode":
		if msg.ModeID == "" {
			return
		}
		h.session.SelectMode(msg.ModeID)
		logf(cfg, "GAMES: Mode %q selected in %s", msg.ModeID, h.id)

	case "reset_mode":
		h.session.ResetMode()

	case "increase_max_drinks":
		h.session.IncreaseMaxDrinks()

	case "decrease_max_drinks":
		h.session.DecreaseMaxDrinks()

	case "set_max_drinks":
		if msg.Value == nil {
			return
		}
		h.session.SetMaxDrinks(*msg.Value)

	case "set_language":
		if !isSupportedLanguage(msg.Language) {
			return
		}
		h.session.SetLanguage(Language(msg.Language))
		cardChanged = true

	case "next_card":
		h.nextCard()
		stateChanged = false
		cardChanged = true

	case "record_drink":
		amount := 0
		if msg.Amount != nil {
			amount = *msg.Amount
		}
		h.session.RecordDrinkForPlayer(msg.Player, amount)

	case "adjust_drinks":
		if msg.Index == nil || msg.Delta == nil {
			return
		}
		h.session.AdjustDrinkTotal(*msg.Index, *msg.Delta)

	case "reset_drinks":
		h.session.ResetDrinkStats()

	case "reload_config":
		// Reload only touches the resolver's own state and is
		// last-write-wins, so it runs off the loop; a slow fetch must
		// not stall session ops or new sockets.
		go func() {
			h.remote.Reload(ctx)
			h.broadcast(ConfigStateMessage{
				Type:   "config_state",
				Status: h.remote.Status(),
			})
			h.broadcast(h.sessionStateMessage())
			h.broadcast(h.cardMessage())
		}()
		stateChanged = false

	default:
		return
	}

	if stateChanged {
		h.broadcast(h.sessionStateMessage())
	}
	if cardChanged {
		h.broadcast(h.cardMessage())
	}
}

// closeAll disconnects all clients of this hub (used by reaper).
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "rabatize_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	ctx         context.Context
	mu          sync.Mutex
	hubs        map[string]*Hub
	remote      *RemoteConfig
	idleTimeout time.Duration
}

func newGameManager(ctx context.Context, remote *RemoteConfig, idleTimeout time.Duration) *GameManager {
	gm := &GameManager{
		ctx:         ctx,
		hubs:        make(map[string]*Hub),
		remote:      remote,
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.remote)
	gm.hubs[gameID] = hub
	go hub.run(gm.ctx, cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-gm.idleTimeout)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(gm.hubs, id)
				go hub.closeAll()
			}
		}
		gm.mu.Unlock()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		hub.register <- client

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		h.ops <- opRequest{
			client: c,
			msg:    msg,
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed game/index.html
var indexHTML []byte

//go:embed game/app.css
var rabatizeCSS []byte

//go:embed game/app.js
var rabatizeJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(rabatizeCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(rabatizeJS)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerGame(ctx context.Context, cfg *Config, path string, remote *RemoteConfig, mux *httprouter.Router) {
	gm := newGameManager(ctx, remote, cfg.sessionTimeout)

	// Root path → redirect to new random game
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, cfg.prefix+path, gm))

	// Per-game client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	// Shared assets (no gameid in route)
	mux.GET(cfg.prefix+"/assets/game/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/game/app.js", getJsHandler(cfg))

	// Per-game websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	// Per-game QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)
}
