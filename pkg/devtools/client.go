package devtools

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/livetree/pkg/host/memdom"
)

type client struct {
	conn *websocket.Conn
	send chan memdom.Mutation

	once    sync.Once
	done    chan struct{}
	code    int
	reason  string
	dropped bool
}

func newClient(conn *websocket.Conn, buffer int) *client {
	return &client{
		conn: conn,
		send: make(chan memdom.Mutation, buffer),
		done: make(chan struct{}),
	}
}

// drop ends a client that fell behind. It runs with the document locked.
func (c *client) drop() {
	c.stop(websocket.ClosePolicyViolation, "client too slow")
}

func (c *client) stop(code int, reason string) {
	c.once.Do(func() {
		c.code = code
		c.reason = reason
		c.dropped = code == websocket.ClosePolicyViolation
		close(c.done)
	})
}

func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.stop(websocket.CloseNormalClosure, "")
			return
		}
	}
}

func (c *client) write(m memdom.Mutation) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

// writeLoop sends live mutations with a sequence number above skip until
// the client stops.
func (c *client) writeLoop(skip uint64, logger *slog.Logger) {
	for {
		select {
		case m := <-c.send:
			if m.Seq <= skip {
				continue
			}
			if err := c.write(m); err != nil {
				logger.Debug("stream write failed", "error", err)
				return
			}
		case <-c.done:
			if c.dropped {
				logger.Warn("dropping slow stream client")
			}
			_ = c.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(c.code, c.reason),
				time.Now().Add(writeWait),
			)
			return
		}
	}
}
