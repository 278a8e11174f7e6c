package ports

import (
	"context"
	"encoding/json"

	"github.com/bnema/rnbridge/internal/domain"
)

type SessionDialer interface {
	Dial(ctx context.Context, target domain.Target) (InspectorSession, error)
}

// InspectorSession is one open connection to a target runtime. Replies and
// events are routed independently, so calls and subscriptions may be active
// at the same time.
type InspectorSession interface {
	Target() domain.Target
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	Subscribe(method string, handler func(params json.RawMessage)) (unsubscribe func())
	// Done is closed after the connection ends and all events received
	// before the end were delivered to subscribers.
	Done() <-chan struct{}
	Close() error
}
