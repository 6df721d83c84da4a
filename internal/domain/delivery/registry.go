package delivery

import (
	"context"

	"github.com/carerota/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
)

// ClientKey identifies one socket connection slot. A user holds at most one
// live connection per organization on each channel; a newer connection for
// the same key evicts the older one.
type ClientKey struct {
	UserID string
	OrgID  string
}

func (k ClientKey) String() string {
	return k.UserID + "/" + k.OrgID
}

// Connection is the write side of a registered socket.
type Connection interface {
	Write(msg []byte) error
}

type registration struct {
	key  ClientKey
	conn Connection
}

// Registry tracks the live connections of a single channel (chat, tasks,
// timesheet). All methods are safe for concurrent use.
type Registry struct {
	channel string
	clients *xsync.MapOf[string, registration]
}

func NewRegistry(channel string) *Registry {
	return &Registry{
		channel: channel,
		clients: xsync.NewMapOf[registration](),
	}
}

func (r *Registry) Channel() string {
	return r.channel
}

// Register stores conn under key and returns the connection it displaced, if
// any. The caller owns closing the displaced connection.
func (r *Registry) Register(ctx context.Context, key ClientKey, conn Connection) Connection {
	old, loaded := r.clients.LoadAndStore(key.String(), registration{key: key, conn: conn})
	if !loaded || old.conn == conn {
		return nil
	}

	xcontext.Logger(ctx).Infof("Displaced %s connection of %s", r.channel, key)
	return old.conn
}

// Unregister removes key only while it still maps to conn. A connection that
// was already displaced by a newer one is left untouched.
func (r *Registry) Unregister(ctx context.Context, key ClientKey, conn Connection) {
	old, loaded := r.clients.Load(key.String())
	if !loaded || old.conn != conn {
		return
	}

	r.clients.Delete(key.String())
}

// SendTo writes msg to the connection registered under key. It reports false
// when no connection is registered. A failed write drops the connection from
// the registry.
func (r *Registry) SendTo(ctx context.Context, key ClientKey, msg []byte) bool {
	reg, ok := r.clients.Load(key.String())
	if !ok {
		return false
	}

	if err := reg.conn.Write(msg); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot write to %s socket of %s: %v", r.channel, key, err)
		r.Unregister(ctx, key, reg.conn)
		return false
	}

	return true
}

// Broadcast writes msg to every connection whose key satisfies match. A nil
// match sends to everyone. It returns the number of successful writes. A
// closed socket encountered mid-broadcast is skipped, not removed; its own
// close handler unregisters it.
func (r *Registry) Broadcast(ctx context.Context, msg []byte, match func(ClientKey) bool) int {
	delivered := 0
	r.clients.Range(func(_ string, reg registration) bool {
		if match != nil && !match(reg.key) {
			return true
		}

		if err := reg.conn.Write(msg); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot write to %s socket of %s: %v", r.channel, reg.key, err)
			return true
		}

		delivered++
		return true
	})

	return delivered
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	n := 0
	r.clients.Range(func(string, registration) bool {
		n++
		return true
	})

	return n
}
