package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"golang.org/x/sync/errgroup"
)

const heartbeatInterval = 15 * time.Second

// AcceptHandler upgrades HTTP requests into push sessions. The player is
// identified by the `player` query parameter; authentication happens in
// an outer layer and is out of scope here.
type AcceptHandler struct {
	hub *Hub
}

func NewAcceptHandler(hub *Hub) *AcceptHandler {
	return &AcceptHandler{hub: hub}
}

func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	playerID := r.URL.Query().Get("player")
	if playerID == "" {
		http.Error(w, "missing player", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 開発用: Origin チェックをスキップ
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}

	session := NewSession(conn)
	h.hub.Attach(playerID, session)
	defer h.hub.Detach(playerID, session)
	slog.DebugContext(ctx, "push session attached", "playerId", playerID, "sessionId", session.ID)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		session.writeLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		session.readLoop(ctx)
		return nil
	})
	eg.Go(func() error {
		h.hub.heartbeatLoop(ctx, playerID, session, heartbeatInterval)
		return nil
	})
	_ = eg.Wait()
	session.Close()
}
