package server

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// ErrBackpressure は書き込みチャネルが満杯のときに返されます。
var ErrBackpressure = errors.New("server: write channel is full, apply backpressure")

// Session は1つのpush接続を表します。書き込みは専用ゴルーチンに
// 直列化され、Sendはノンブロッキングです。
type Session struct {
	ID   string
	conn *websocket.Conn

	writeCh chan []byte

	closed   atomic.Bool
	closedCh chan struct{}
}

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		ID:       uuid.NewString(),
		conn:     conn,
		writeCh:  make(chan []byte, 256),
		closedCh: make(chan struct{}),
	}
}

// Send enqueues a frame for delivery. It never blocks; a full queue
// drops the frame with ErrBackpressure.
func (s *Session) Send(data []byte) error {
	if s.closed.Load() {
		return errors.New("server: session closed")
	}
	select {
	case s.writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

// Ping sends a websocket-level ping and waits for the pong.
func (s *Session) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close tears the session down once; further calls are no-ops.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.closedCh)
	if s.conn != nil {
		_ = s.conn.Close(websocket.StatusNormalClosure, "")
	}
}

// Closed is closed when the session has been torn down.
func (s *Session) Closed() <-chan struct{} {
	return s.closedCh
}

// writeLoop drains writeCh onto the connection.
func (s *Session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closedCh:
			return
		case data := <-s.writeCh:
			if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
				s.Close()
				return
			}
		}
	}
}

// readLoop consumes inbound frames to keep pings/pongs and close frames
// flowing; push sessions carry no application data upstream.
func (s *Session) readLoop(ctx context.Context) {
	for {
		if _, _, err := s.conn.Read(ctx); err != nil {
			s.Close()
			return
		}
	}
}
