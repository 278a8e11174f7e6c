package application

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/ports"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/go-logr/logr"
	"github.com/smallnest/chanx"
)

const (
	DefaultLogTimeout = 5 * time.Second
	DefaultMaxLogs    = 100

	// Metro prints this into the app console whenever a debugger that is
	// not its own frontend attaches.
	unsupportedClientNotice = "You are using an unsupported debugging client"

	logQueueCapacity = 64
)

type CollectOptions struct {
	// Filter is a regular expression matched against the message. Entries
	// that do not match are dropped and do not count towards MaxLogs.
	Filter string
	// MaxLogs <= 0 means no limit.
	MaxLogs int
	// Timeout <= 0 means no deadline: the stream runs until the context is
	// cancelled or the session ends.
	Timeout time.Duration
}

type Collector struct {
	Log logr.Logger
}

// LogStream is a finite sequence of console entries from one session.
type LogStream struct {
	ctx      context.Context
	session  ports.InspectorSession
	filter   *regexp.Regexp
	maxLogs  int
	deadline time.Time
	log      logr.Logger

	entries     *chanx.UnboundedChan[domain.LogEntry]
	stopQueue   context.CancelFunc
	done        chan struct{}
	unsubscribe func()
	started     atomic.Bool
	closeOnce   sync.Once
}

// Collect subscribes to console calls on session. The caller enables the
// runtime afterwards; anything reported from then on is captured.
func (c Collector) Collect(ctx context.Context, session ports.InspectorSession, opts CollectOptions) (*LogStream, error) {
	var filter *regexp.Regexp
	if opts.Filter != "" {
		compiled, err := regexp.Compile(opts.Filter)
		if err != nil {
			return nil, fmt.Errorf("invalid log filter %q: %w", opts.Filter, err)
		}
		filter = compiled
	}

	queueCtx, stopQueue := context.WithCancel(context.Background())
	stream := &LogStream{
		ctx:       ctx,
		session:   session,
		filter:    filter,
		maxLogs:   opts.MaxLogs,
		log:       c.Log,
		entries:   chanx.NewUnboundedChan[domain.LogEntry](queueCtx, logQueueCapacity),
		stopQueue: stopQueue,
		done:      make(chan struct{}),
	}
	if opts.Timeout > 0 {
		stream.deadline = time.Now().Add(opts.Timeout)
	}
	stream.unsubscribe = session.Subscribe(protocol.EventConsoleAPICalled, stream.handle)

	return stream, nil
}

// All yields accepted entries in arrival order until the limit, the
// deadline, cancellation or disconnect. Entries that arrived before the
// stream stopped are yielded first. A stream can be iterated once.
func (s *LogStream) All() iter.Seq[domain.LogEntry] {
	return func(yield func(domain.LogEntry) bool) {
		if !s.started.CompareAndSwap(false, true) {
			return
		}
		defer s.Close()

		var expired <-chan time.Time
		if !s.deadline.IsZero() {
			timer := time.NewTimer(time.Until(s.deadline))
			defer timer.Stop()
			expired = timer.C
		}

		sessionDone := s.session.Done()
		accepted := 0
		accept := func(entry domain.LogEntry, ok bool) bool {
			if !ok {
				return false
			}
			accepted++
			return yield(entry)
		}

		for s.maxLogs <= 0 || accepted < s.maxLogs {
			select {
			case entry, ok := <-s.entries.Out:
				if !accept(entry, ok) {
					return
				}
				continue
			default:
			}

			select {
			case entry, ok := <-s.entries.Out:
				if !accept(entry, ok) {
					return
				}
			case <-expired:
				s.log.V(1).Info("log collection deadline reached", "entries", accepted)
				s.flush(accept, &accepted)
				return
			case <-s.ctx.Done():
				s.flush(accept, &accepted)
				return
			case <-sessionDone:
				// No handler runs after Done, so the queue can be sealed and
				// drained until Out closes.
				s.log.V(1).Info("session ended during log collection", "entries", accepted)
				sessionDone = nil
				close(s.entries.In)
			}
		}
	}
}

// flush stops accepting new entries and yields the ones already queued.
func (s *LogStream) flush(accept func(domain.LogEntry, bool) bool, accepted *int) {
	s.unsubscribe()
	for s.maxLogs <= 0 || *accepted < s.maxLogs {
		select {
		case entry, ok := <-s.entries.Out:
			if !accept(entry, ok) {
				return
			}
		default:
			return
		}
	}
}

// Close stops collection. It is safe to call more than once.
func (s *LogStream) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		close(s.done)
		s.stopQueue()
	})
}

func (s *LogStream) handle(params json.RawMessage) {
	var call protocol.ConsoleAPICalledParams
	if err := json.Unmarshal(params, &call); err != nil {
		s.log.V(1).Info("dropping undecodable console event", "error", err.Error())
		return
	}

	entry := logEntryFromConsole(call)
	if strings.Contains(entry.Message, unsupportedClientNotice) {
		return
	}
	if s.filter != nil && !s.filter.MatchString(entry.Message) {
		return
	}

	select {
	case s.entries.In <- entry:
	case <-s.done:
	}
}

func logEntryFromConsole(call protocol.ConsoleAPICalledParams) domain.LogEntry {
	entry := domain.LogEntry{
		Level:   domain.ParseLogLevel(call.Type),
		Message: renderConsoleArgs(call.Args),
	}
	if call.Timestamp > 0 {
		entry.Timestamp = time.UnixMilli(int64(call.Timestamp)).UTC()
	}

	if entry.Level.Locatable() && call.StackTrace != nil && len(call.StackTrace.CallFrames) > 0 {
		frame := call.StackTrace.CallFrames[0]
		entry.Location = &domain.Location{
			File:     frame.URL,
			Line:     frame.LineNumber + 1,
			Column:   frame.ColumnNumber + 1,
			Function: frame.FunctionName,
		}
	}
	return entry
}
