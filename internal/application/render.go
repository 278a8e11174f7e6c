package application

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/bnema/rnbridge/internal/protocol"
)

// renderResult turns an evaluation result into text, preferring the value
// returned by the runtime over its description.
func renderResult(obj *protocol.RemoteObject) string {
	if obj == nil || obj.Type == "undefined" {
		return "undefined"
	}
	if obj.Subtype == "null" {
		return "null"
	}
	if obj.HasValue() {
		return renderJSON(obj.Value)
	}
	if obj.Description != "" {
		return obj.Description
	}
	if obj.UnserializableValue != "" {
		return obj.UnserializableValue
	}
	return fallbackLabel(*obj)
}

// renderConsoleArg renders one console argument. Console output reads like
// the runtime's own formatting, so the description comes first.
func renderConsoleArg(obj protocol.RemoteObject) string {
	switch {
	case obj.Type == "undefined":
		return "undefined"
	case obj.Subtype == "null":
		return "null"
	case obj.Description != "":
		return obj.Description
	case obj.HasValue():
		return renderJSON(obj.Value)
	case obj.UnserializableValue != "":
		return obj.UnserializableValue
	default:
		return fallbackLabel(obj)
	}
}

func renderConsoleArgs(args []protocol.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, renderConsoleArg(arg))
	}
	return strings.Join(parts, " ")
}

func renderJSON(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '{', '[':
		var out bytes.Buffer
		if err := json.Indent(&out, trimmed, "", "  "); err == nil {
			return out.String()
		}
	}
	return string(trimmed)
}

func fallbackLabel(obj protocol.RemoteObject) string {
	if obj.Subtype == "" {
		return "[" + obj.Type + "]"
	}
	return "[" + obj.Type + " " + obj.Subtype + "]"
}
