// Package inspector implements the transport session to one app runtime:
// a websocket connection, the request id counter, and the dispatcher that
// routes inbound frames to pending requests or event subscribers.
package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/ports"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/smallnest/chanx"
)

const (
	defaultHandshakeTimeout = 5 * time.Second
	closeFrameTimeout       = 100 * time.Millisecond
	maxFrameBytes           = 32 << 20
	eventQueueCapacity      = 64
)

type Options struct {
	HandshakeTimeout time.Duration
	Header           http.Header
	Log              logr.Logger
}

// Session owns one connection to one target. The reader goroutine started
// by Open is the only code that reads the connection.
type Session struct {
	id     string
	target domain.Target
	conn   *websocket.Conn
	log    logr.Logger

	nextID atomic.Int64

	writeMu sync.Mutex

	mu          sync.Mutex
	pending     map[int64]chan reply
	subscribers map[string][]*subscriber
	closed      bool

	events     *chanx.UnboundedChan[protocol.Event]
	readerDone chan struct{}
	pumpDone   chan struct{}
	closeOnce  sync.Once
	closeErr   error
}

var _ ports.InspectorSession = (*Session)(nil)

type reply struct {
	result json.RawMessage
	err    error
}

type subscriber struct {
	handler func(params json.RawMessage)
}

// Pending is the caller's handle on one sent request.
type Pending struct {
	ID      int64
	Method  string
	slot    chan reply
	session *Session
}

func Open(ctx context.Context, target domain.Target, opts Options) (*Session, error) {
	if target.Endpoint == "" {
		return nil, &domain.ConnectionError{Endpoint: string(target.ID), Err: errors.New("target has no websocket debugger url")}
	}

	handshakeTimeout := opts.HandshakeTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = defaultHandshakeTimeout
	}
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, target.Endpoint, opts.Header)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (status %d)", err, resp.StatusCode)
		}
		return nil, &domain.ConnectionError{Endpoint: target.Endpoint, Err: err}
	}
	conn.SetReadLimit(maxFrameBytes)

	sessionID := uuid.NewString()
	s := &Session{
		id:          sessionID,
		target:      target,
		conn:        conn,
		log:         opts.Log.WithValues("session", sessionID, "target", target.ID),
		pending:     make(map[int64]chan reply),
		subscribers: make(map[string][]*subscriber),
		events:      chanx.NewUnboundedChan[protocol.Event](context.Background(), eventQueueCapacity),
		readerDone:  make(chan struct{}),
		pumpDone:    make(chan struct{}),
	}

	go s.readLoop()
	go s.pumpEvents()

	s.log.Info("inspector session opened", "endpoint", target.Endpoint)
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Target() domain.Target { return s.target }

// Done is closed once the connection is gone and every event read before
// that point has been handed to its subscribers. Pending requests are
// resolved by then.
func (s *Session) Done() <-chan struct{} { return s.pumpDone }

// Send transmits one request and returns without waiting for the reply.
// The pending slot is registered before the frame is written, so a fast
// reply cannot overtake the registration.
func (s *Session) Send(method string, params any) (*Pending, error) {
	id := s.nextID.Add(1)
	frame, err := json.Marshal(protocol.Request{ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	slot := make(chan reply, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, &domain.ConnectionError{Endpoint: s.target.Endpoint, Err: domain.ErrDisconnected}
	}
	s.pending[id] = slot
	s.mu.Unlock()

	if err := s.write(frame); err != nil {
		s.mu.Lock()
		delete(s.pending, id)
		s.mu.Unlock()
		return nil, &domain.ConnectionError{Endpoint: s.target.Endpoint, Err: fmt.Errorf("send %s: %w", method, err)}
	}

	s.log.V(1).Info("sent request", "id", id, "method", method)
	return &Pending{ID: id, Method: method, slot: slot, session: s}, nil
}

// Wait blocks until the reply arrives or ctx is done. An abandoned wait
// leaves the slot registered; the late reply is discarded on arrival.
func (p *Pending) Wait(ctx context.Context) (json.RawMessage, error) {
	select {
	case r := <-p.slot:
		return r.result, r.err
	case <-ctx.Done():
		p.session.log.V(1).Info("abandoned wait for reply", "id", p.ID, "method", p.Method, "reason", ctx.Err())
		return nil, ctx.Err()
	}
}

func (s *Session) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	pending, err := s.Send(method, params)
	if err != nil {
		return nil, err
	}
	return pending.Wait(ctx)
}

// Subscribe registers handler for events named method. Handlers run on the
// session's event goroutine, one at a time, in registration order.
func (s *Session) Subscribe(method string, handler func(params json.RawMessage)) func() {
	sub := &subscriber{handler: handler}

	s.mu.Lock()
	s.subscribers[method] = append(s.subscribers[method], sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			subs := s.subscribers[method]
			for i, candidate := range subs {
				if candidate == sub {
					s.subscribers[method] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(s.subscribers[method]) == 0 {
				delete(s.subscribers, method)
			}
		})
	}
}

// Close ends the session. Outstanding requests resolve with
// ErrDisconnected. Calling Close more than once is safe.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		closeMsgErr := s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeFrameTimeout),
		)
		s.writeMu.Unlock()
		if closeMsgErr != nil && !errors.Is(closeMsgErr, websocket.ErrCloseSent) {
			s.log.V(1).Info("failed to send close message", "error", closeMsgErr)
		}

		if err := s.conn.Close(); err != nil {
			s.closeErr = fmt.Errorf("close inspector connection: %w", err)
		}

		<-s.readerDone
		s.log.Info("inspector session closed")
	})

	return s.closeErr
}

func (s *Session) write(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteMessage(websocket.TextMessage, frame)
}
