package application

import (
	"context"
	"testing"

	"github.com/bnema/rnbridge/internal/adapters/inspector"
	"github.com/bnema/rnbridge/internal/adapters/inspector/inspectortest"
	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var myApp = inspectortest.App{ID: "myapp-1", Title: "MyApp", DeviceName: "Pixel 8"}

func targetFor(server *inspectortest.Server, app inspectortest.App) domain.Target {
	return domain.Target{
		ID:         domain.TargetID(app.ID),
		Title:      app.Title,
		DeviceName: app.DeviceName,
		Endpoint:   server.Endpoint(app.ID),
	}
}

func openSession(t *testing.T, server *inspectortest.Server) *inspector.Session {
	t.Helper()

	session, err := inspector.Open(context.Background(), targetFor(server, myApp), inspector.Options{Log: logr.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// answerExpressions replies to Runtime.evaluate from a table keyed by
// expression. Unknown expressions raise a ReferenceError.
func answerExpressions(answers map[string]protocol.EvaluateResult) inspectortest.HandlerFunc {
	return func(conn *inspectortest.Conn, req inspectortest.Request) {
		params, err := inspectortest.DecodeParams[protocol.EvaluateParams](req)
		if err != nil {
			_ = conn.ReplyError(req.ID, -32602, err.Error())
			return
		}
		result, ok := answers[params.Expression]
		if !ok {
			result = inspectortest.Thrown("ReferenceError: Property '" + params.Expression + "' doesn't exist")
		}
		_ = conn.Reply(req.ID, result)
	}
}

func requestsFor(server *inspectortest.Server, method string) []inspectortest.Request {
	var matched []inspectortest.Request
	for _, req := range server.Requests() {
		if req.Method == method {
			matched = append(matched, req)
		}
	}
	return matched
}

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}
