package ws

import (
	"context"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pcfscope/server/watch"
)

// connNotifier delivers watcher notifications to one client connection.
type connNotifier struct {
	conn   *jsonrpc2.Conn
	connID string
}

var _ watch.Notifier = (*connNotifier)(nil)

func (n *connNotifier) Notify(ctx context.Context, notif watch.Notification) error {
	if err := n.conn.Notify(ctx, notif.Method, notif.Params); err != nil {
		return fmt.Errorf("notify %s to %s: %w", notif.Method, n.connID, err)
	}
	return nil
}
