package inspectortest

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/rnbridge/internal/protocol"
)

// Remote builds the RemoteObject a runtime would report for v when
// returning by value.
func Remote(v any) protocol.RemoteObject {
	if v == nil {
		return protocol.RemoteObject{Type: "object", Subtype: "null", Value: json.RawMessage("null")}
	}

	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("inspectortest: encode remote value: %v", err))
	}

	switch typed := v.(type) {
	case string:
		return protocol.RemoteObject{Type: "string", Value: raw}
	case bool:
		return protocol.RemoteObject{Type: "boolean", Value: raw}
	case int, int64, float64:
		return protocol.RemoteObject{Type: "number", Value: raw, Description: fmt.Sprint(typed)}
	case []any:
		return protocol.RemoteObject{Type: "object", Subtype: "array", ClassName: "Array", Value: raw, Description: fmt.Sprintf("Array(%d)", len(typed))}
	default:
		return protocol.RemoteObject{Type: "object", ClassName: "Object", Value: raw, Description: "Object"}
	}
}

func Undefined() protocol.RemoteObject {
	return protocol.RemoteObject{Type: "undefined"}
}

func Value(v any) protocol.EvaluateResult {
	remote := Remote(v)
	return protocol.EvaluateResult{Result: &remote}
}

// Thrown is the reply for an expression that raised an exception.
func Thrown(description string) protocol.EvaluateResult {
	return protocol.EvaluateResult{
		Result: &protocol.RemoteObject{Type: "object", Subtype: "error", ClassName: "Error", Description: description},
		ExceptionDetails: &protocol.ExceptionDetails{
			ExceptionID: 1,
			Text:        "Uncaught",
			Exception:   &protocol.RemoteObject{Type: "object", Subtype: "error", ClassName: "Error", Description: description},
		},
	}
}

// PromiseHandle is the reply of a runtime that did not await a promise.
func PromiseHandle(objectID string) protocol.EvaluateResult {
	return protocol.EvaluateResult{Result: &protocol.RemoteObject{
		Type:        "object",
		Subtype:     "promise",
		ClassName:   "Promise",
		Description: "Promise",
		ObjectID:    objectID,
	}}
}

// Console builds a console API call whose arguments are the given values.
func Console(consoleType string, args ...any) protocol.ConsoleAPICalledParams {
	params := protocol.ConsoleAPICalledParams{
		Type:               consoleType,
		ExecutionContextID: 1,
		Timestamp:          1767225600000,
	}
	for _, arg := range args {
		if remote, ok := arg.(protocol.RemoteObject); ok {
			params.Args = append(params.Args, remote)
			continue
		}
		params.Args = append(params.Args, Remote(arg))
	}
	return params
}

// WithStack attaches a stack trace whose top frame is the given location.
// Line and column are zero-based, as on the wire.
func WithStack(params protocol.ConsoleAPICalledParams, function, url string, line, column int) protocol.ConsoleAPICalledParams {
	params.StackTrace = &protocol.StackTrace{CallFrames: []protocol.CallFrame{
		{FunctionName: function, ScriptID: "1", URL: url, LineNumber: line, ColumnNumber: column},
		{FunctionName: "callTimer", ScriptID: "2", URL: "InitializeCore.js", LineNumber: 10, ColumnNumber: 2},
	}}
	return params
}

// DecodeParams decodes the params of req.
func DecodeParams[T any](req Request) (T, error) {
	var params T
	err := json.Unmarshal(req.Params, &params)
	return params, err
}
