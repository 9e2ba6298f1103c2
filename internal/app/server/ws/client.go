package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrClientClosed = errors.New("client closed")

// Client is one registered realtime connection: a fresh connection id, the
// authenticated user behind it, and a buffered outbound queue drained by a
// single write goroutine. Several clients may share a user id.
type Client struct {
	ctx    context.Context
	cancel context.CancelFunc
	ws     *WebSocket
	connID uuid.UUID
	userID uuid.UUID
	out    chan []byte
	once   sync.Once
}

func NewClient(parent context.Context, ws *WebSocket, userID uuid.UUID, queueSize int) *Client {
	ctx, cancel := context.WithCancel(parent)
	c := &Client{
		ctx:    ctx,
		cancel: cancel,
		ws:     ws,
		connID: uuid.New(),
		userID: userID,
		out:    make(chan []byte, queueSize),
	}
	go c.writeLoop()
	return c
}

func (c *Client) ID() uuid.UUID     { return c.connID }
func (c *Client) UserID() uuid.UUID { return c.userID }

// IsAlive reports whether the connection has been closed. The registry skips
// dead clients during broadcast even before they are removed.
func (c *Client) IsAlive() bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
		return true
	}
}

// Send enqueues data for the write loop. Returns once queued, when the
// client closes, or when ctx expires — a hung client cannot block the
// caller indefinitely.
func (c *Client) Send(ctx context.Context, data []byte) error {
	// Checked up front so a send after Close fails deterministically even
	// when the queue still has room.
	select {
	case <-c.ctx.Done():
		return ErrClientClosed
	default:
	}
	select {
	case c.out <- data:
		return nil
	case <-c.ctx.Done():
		return ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close is idempotent and safe under concurrent triggers (client-initiated
// close racing a broadcast failure). The out channel is never closed:
// broadcasts may still be selecting on it, and sending on a closed channel
// would panic the sender. The writeLoop exits on ctx instead, and anything
// left in the queue is dropped with the connection.
func (c *Client) Close() {
	c.once.Do(func() {
		c.cancel()
		c.ws.Close()
	})
}

func (c *Client) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.out:
			if err := c.ws.WriteMessage(data); err != nil {
				return
			}
		}
	}
}
