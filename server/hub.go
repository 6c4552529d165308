// Package server pushes battle events to connected clients over
// websockets. It is a notification sink only; combat commands do not
// travel through it.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"emberfall/domain"
)

// pushFrame is the JSON envelope written to clients.
type pushFrame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub はプレイヤーIDと接続セッションの対応を保持する通知ハブです。
// 未接続プレイヤーへの Emit は黙って捨てられます(fire-and-forget)。
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

// Attach registers a session as the player's push channel, displacing
// any previous session.
func (h *Hub) Attach(playerID string, s *Session) {
	h.mu.Lock()
	prev := h.sessions[playerID]
	h.sessions[playerID] = s
	h.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

// Detach removes the session if it is still the player's current one.
func (h *Hub) Detach(playerID string, s *Session) {
	h.mu.Lock()
	if h.sessions[playerID] == s {
		delete(h.sessions, playerID)
	}
	h.mu.Unlock()
}

// Emit implements domain.Notifier. Marshal or delivery failures are
// logged and never propagate: losing a notification must not fail the
// battle that produced it.
func (h *Hub) Emit(ctx context.Context, playerID, event string, payload any) {
	h.mu.RLock()
	s := h.sessions[playerID]
	h.mu.RUnlock()
	if s == nil {
		return
	}

	data, err := json.Marshal(pushFrame{Event: event, Payload: payload})
	if err != nil {
		slog.WarnContext(ctx, "event marshal failed", "playerId", playerID, "event", event, "err", err)
		return
	}
	if err := s.Send(data); err != nil {
		slog.WarnContext(ctx, "push dropped", "playerId", playerID, "event", event, "err", err)
	}
}

var _ domain.Notifier = (*Hub)(nil)

// heartbeatLoop は一定間隔でpingフレームを送り、送れないセッションを
// 検出します。ctxのキャンセルで終了します。
func (h *Hub) heartbeatLoop(ctx context.Context, playerID string, s *Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Closed():
			return
		case <-ticker.C:
			if err := s.Ping(ctx); err != nil {
				slog.DebugContext(ctx, "heartbeat failed, closing session", "playerId", playerID, "err", err)
				s.Close()
				return
			}
		}
	}
}
