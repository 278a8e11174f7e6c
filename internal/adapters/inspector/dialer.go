package inspector

import (
	"context"
	"time"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/ports"
	"github.com/go-logr/logr"
)

type Dialer struct {
	HandshakeTimeout time.Duration
	Log              logr.Logger
}

var _ ports.SessionDialer = Dialer{}

func (d Dialer) Dial(ctx context.Context, target domain.Target) (ports.InspectorSession, error) {
	session, err := Open(ctx, target, Options{
		HandshakeTimeout: d.HandshakeTimeout,
		Log:              d.Log,
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
