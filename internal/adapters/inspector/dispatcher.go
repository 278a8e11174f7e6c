package inspector

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/gorilla/websocket"
)

// readLoop is the single reader of the connection. It runs for the life of
// the session whether or not anyone is waiting, so events keep flowing
// while a request is outstanding.
func (s *Session) readLoop() {
	defer close(s.readerDone)
	defer close(s.events.In)

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			s.failPending(err)
			return
		}

		if msgType != websocket.TextMessage {
			s.log.V(1).Info("ignoring non-text frame", "type", msgType)
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.log.V(1).Info("dropping malformed frame", "error", err.Error(), "bytes", len(data))
			continue
		}

		s.dispatch(msg)
	}
}

func (s *Session) dispatch(msg protocol.Message) {
	switch {
	case msg.IsReply():
		s.resolve(*msg.ID, msg)
	case msg.IsEvent():
		s.events.In <- protocol.Event{Method: msg.Method, Params: msg.Params}
	default:
		s.log.V(1).Info("dropping frame with neither id nor method")
	}
}

// resolve completes the pending slot for id exactly once. Replies for ids
// nobody is waiting on, including replies arriving after a caller gave up,
// are dropped.
func (s *Session) resolve(id int64, msg protocol.Message) {
	s.mu.Lock()
	slot, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		s.log.V(1).Info("dropping reply without pending request", "id", id)
		return
	}

	var r reply
	if msg.Error != nil {
		r.err = msg.Error
	} else {
		r.result = msg.Result
	}
	s.log.V(1).Info("received reply", "id", id, "error", msg.Error != nil)
	slot <- r
}

func (s *Session) failPending(readErr error) {
	s.mu.Lock()
	s.closed = true
	pending := s.pending
	s.pending = make(map[int64]chan reply)
	s.mu.Unlock()

	var closeErr *websocket.CloseError
	if errors.As(readErr, &closeErr) {
		s.log.V(1).Info("inspector endpoint closed the connection", "code", closeErr.Code)
	} else {
		s.log.V(1).Info("inspector connection read failed", "error", readErr.Error())
	}

	err := &domain.ConnectionError{
		Endpoint: s.target.Endpoint,
		Err:      fmt.Errorf("%w: %v", domain.ErrDisconnected, readErr),
	}
	for id, slot := range pending {
		s.log.V(1).Info("failing pending request", "id", id)
		slot <- reply{err: err}
	}
}

// pumpEvents delivers queued events to subscribers. Delivery order matches
// arrival order on the wire, and a slow handler delays later events without
// stalling the reader.
func (s *Session) pumpEvents() {
	defer close(s.pumpDone)

	for event := range s.events.Out {
		for _, sub := range s.subscribersFor(event.Method) {
			sub.handler(event.Params)
		}
	}
}

func (s *Session) subscribersFor(method string) []*subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*subscriber(nil), s.subscribers[method]...)
}
