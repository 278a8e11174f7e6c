// Package inspectortest provides a fake Metro bundler whose attached apps
// speak the inspector Runtime subset used by the bridge.
package inspectortest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/gorilla/websocket"
)

const debugPath = "/inspector/debug"

type App struct {
	ID         string
	Title      string
	DeviceName string
}

// Request is one frame received by the fake runtime.
type Request struct {
	ID     int64           `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type HandlerFunc func(conn *Conn, req Request)

type Server struct {
	t        testing.TB
	http     *httptest.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	apps     []App
	handlers map[string]HandlerFunc
	onEnable func(conn *Conn)
	requests []Request
	conns    []*Conn

	connected chan *Conn
}

func NewServer(t testing.TB, apps ...App) *Server {
	t.Helper()

	s := &Server{
		t:         t,
		apps:      apps,
		handlers:  make(map[string]HandlerFunc),
		connected: make(chan *Conn, 16),
	}
	s.handlers[protocol.MethodRuntimeEnable] = s.handleEnable

	mux := http.NewServeMux()
	mux.HandleFunc("/json", s.serveTargets)
	mux.HandleFunc("/json/list", s.serveTargets)
	mux.HandleFunc(debugPath, s.serveDebugger)
	s.http = httptest.NewServer(mux)

	t.Cleanup(s.Close)
	return s
}

// URL is the bundler base address, as passed to discovery.
func (s *Server) URL() string {
	return s.http.URL
}

func (s *Server) SetApps(apps ...App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps = apps
}

// Handle installs the handler for method, replacing any previous one.
func (s *Server) Handle(method string, handler HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = handler
}

// OnEnable runs fn on its own goroutine after Runtime.enable was answered,
// which is the point where a real runtime starts reporting console calls.
func (s *Server) OnEnable(fn func(conn *Conn)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnable = fn
}

// Connected yields every accepted debugger connection.
func (s *Server) Connected() <-chan *Conn {
	return s.connected
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) Close() {
	s.mu.Lock()
	conns := append([]*Conn(nil), s.conns...)
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
	s.http.Close()
}

// Endpoint is the websocket address advertised for app id.
func (s *Server) Endpoint(appID string) string {
	wsURL := "ws" + strings.TrimPrefix(s.http.URL, "http")
	return wsURL + debugPath + "?page=" + url.QueryEscape(appID)
}

func (s *Server) serveTargets(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	apps := append([]App(nil), s.apps...)
	s.mu.Unlock()

	descriptors := make([]map[string]any, 0, len(apps)+1)
	for _, app := range apps {
		descriptors = append(descriptors, map[string]any{
			"id":                   app.ID,
			"title":                app.Title,
			"description":          "com.example." + strings.ToLower(app.Title),
			"type":                 "node",
			"vm":                   "Hermes",
			"deviceName":           app.DeviceName,
			"webSocketDebuggerUrl": s.Endpoint(app.ID),
			"reactNative": map[string]any{
				"logicalDeviceId": app.ID,
				"capabilities":    map[string]bool{"nativePageReloads": true},
			},
		})
	}
	descriptors = append(descriptors, map[string]any{
		"id":                   "devtools-frontend",
		"title":                "React Native DevTools",
		"description":          "DevTools frontend",
		"type":                 "page",
		"webSocketDebuggerUrl": "ws://127.0.0.1:1/devtools",
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(descriptors)
}

func (s *Server) serveDebugger(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	conn := &Conn{AppID: r.URL.Query().Get("page"), ws: ws}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()

	select {
	case s.connected <- conn:
	default:
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			s.t.Errorf("fake runtime received malformed frame: %v", err)
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		handler := s.handlers[req.Method]
		s.mu.Unlock()

		if handler == nil {
			_ = conn.ReplyError(req.ID, -32601, fmt.Sprintf("Unsupported method '%s'", req.Method))
			continue
		}
		handler(conn, req)
	}
}

func (s *Server) handleEnable(conn *Conn, req Request) {
	_ = conn.Reply(req.ID, struct{}{})

	s.mu.Lock()
	onEnable := s.onEnable
	s.mu.Unlock()

	if onEnable != nil {
		go onEnable(conn)
	}
}

// Conn is the runtime side of one debugger connection.
type Conn struct {
	AppID string

	mu sync.Mutex
	ws *websocket.Conn
}

func (c *Conn) Reply(id int64, result any) error {
	return c.writeJSON(map[string]any{"id": id, "result": result})
}

func (c *Conn) ReplyError(id int64, code int, message string) error {
	return c.writeJSON(map[string]any{"id": id, "error": map[string]any{"code": code, "message": message}})
}

func (c *Conn) Emit(method string, params any) error {
	return c.writeJSON(map[string]any{"method": method, "params": params})
}

func (c *Conn) WriteRaw(frame string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(frame))
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.Close()
}

func (c *Conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(v)
}
