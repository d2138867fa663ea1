package push

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/feedsync/pkg/logger"
)

var (
	// ErrConnectionClosed reports a send against a closed or stalled handle.
	ErrConnectionClosed = errors.New("push connection closed")
)

// Frame is one server-sent event: a name plus a JSON-serializable payload.
type Frame struct {
	Event string
	Data  interface{}
}

// Conn is an ephemeral per-user push handle. It lives only in memory; a
// process restart drops every connection and clients must resubscribe.
type Conn struct {
	userID    int64
	ch        chan Frame
	done      chan struct{}
	closeOnce sync.Once
	timer     *time.Timer
}

// Events is the frame stream consumed by the transport layer.
func (c *Conn) Events() <-chan Frame { return c.ch }

// Done is closed when the connection terminates for any reason.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		if c.timer != nil {
			c.timer.Stop()
		}
		close(c.done)
	})
}

// send is non-blocking: a closed handle or a full buffer (stalled client)
// both count as a delivery failure.
func (c *Conn) send(f Frame) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.ch <- f:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return ErrConnectionClosed
	}
}

// Registry keeps at most one live push connection per user id. It is safe
// for concurrent subscribe/deliver/remove; entries are keyed by user id in a
// sync.Map so traffic for different users never serializes on one lock.
type Registry struct {
	conns       sync.Map // int64 -> *Conn
	idleTimeout time.Duration
	buffer      int
}

func NewRegistry(idleTimeout time.Duration, buffer int) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	if buffer <= 0 {
		buffer = 16
	}
	return &Registry{idleTimeout: idleTimeout, buffer: buffer}
}

// Subscribe opens a new connection for the user, superseding and closing any
// previous one, and sends the initial acknowledgment frame. If that first
// send fails the handle is removed again and the error surfaces.
func (r *Registry) Subscribe(userID int64) (*Conn, error) {
	conn := &Conn{
		userID: userID,
		ch:     make(chan Frame, r.buffer),
		done:   make(chan struct{}),
	}
	conn.timer = time.AfterFunc(r.idleTimeout, func() {
		logger.Info("push connection idle timeout", zap.Int64("user_id", userID))
		r.drop(userID, conn)
	})

	if prev, loaded := r.conns.Swap(userID, conn); loaded {
		// close-on-replace so the superseded transport terminates
		prev.(*Conn).close()
	}

	if err := r.trySend(conn, Frame{Event: "connect", Data: "connected"}); err != nil {
		r.drop(userID, conn)
		return nil, fmt.Errorf("push subscribe user %d: %w", userID, err)
	}
	logger.Info("push connection opened", zap.Int64("user_id", userID))
	return conn, nil
}

// Deliver attempts a live send. No connection is not an error: the event was
// already durably recorded upstream, the user catches up on next poll. Any
// send failure removes the stale handle and surfaces a connection error.
func (r *Registry) Deliver(userID int64, frame Frame) error {
	v, ok := r.conns.Load(userID)
	if !ok {
		logger.Debug("no live push connection", zap.Int64("user_id", userID))
		return nil
	}
	conn := v.(*Conn)
	if err := r.trySend(conn, frame); err != nil {
		r.drop(userID, conn)
		return fmt.Errorf("push deliver user %d: %w", userID, err)
	}
	return nil
}

// Unsubscribe removes the handle if it is still the current one. Used by the
// transport on natural completion or client disconnect.
func (r *Registry) Unsubscribe(userID int64, conn *Conn) {
	r.drop(userID, conn)
}

// Len reports the number of live connections (sampled).
func (r *Registry) Len() int {
	n := 0
	r.conns.Range(func(_, _ any) bool { n++; return true })
	return n
}

func (r *Registry) trySend(conn *Conn, f Frame) error {
	if err := conn.send(f); err != nil {
		return err
	}
	conn.timer.Reset(r.idleTimeout)
	return nil
}

// drop removes the mapping only if conn is still the registered handle, so
// a late cleanup cannot evict a newer connection.
func (r *Registry) drop(userID int64, conn *Conn) {
	r.conns.CompareAndDelete(userID, conn)
	conn.close()
}
