package ws

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	// clients only send small requests; views go the other way
	readLimit    = 1 << 20
	writeTimeout = 10 * time.Second
)

// webSocketStream carries JSON-RPC objects over a websocket. Reads block
// until the connection context ends; each write gets its own deadline so
// a stalled client cannot hold the notification fan-out.
type webSocketStream struct {
	ctx  context.Context
	conn *websocket.Conn
	mu   sync.Mutex
}

var _ jsonrpc2.ObjectStream = (*webSocketStream)(nil)

func newWebSocketStream(ctx context.Context, conn *websocket.Conn) *webSocketStream {
	conn.SetReadLimit(readLimit)
	return &webSocketStream{ctx: ctx, conn: conn}
}

func (s *webSocketStream) ReadObject(v any) error {
	err := wsjson.Read(s.ctx, s.conn, v)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		// lets jsonrpc2 treat a clean close as end of stream
		return io.EOF
	}
	return err
}

func (s *webSocketStream) WriteObject(v any) error {
	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	return wsjson.Write(ctx, s.conn, v)
}

func (s *webSocketStream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
