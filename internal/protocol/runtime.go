package protocol

import "encoding/json"

const (
	MethodRuntimeEnable       = "Runtime.enable"
	MethodRuntimeEvaluate     = "Runtime.evaluate"
	MethodRuntimeAwaitPromise = "Runtime.awaitPromise"
	EventConsoleAPICalled     = "Runtime.consoleAPICalled"
)

// RemoteObject mirrors a value living in the remote runtime.
type RemoteObject struct {
	Type                string          `json:"type"`
	Subtype             string          `json:"subtype,omitempty"`
	ClassName           string          `json:"className,omitempty"`
	Value               json.RawMessage `json:"value,omitempty"`
	UnserializableValue string          `json:"unserializableValue,omitempty"`
	Description         string          `json:"description,omitempty"`
	ObjectID            string          `json:"objectId,omitempty"`
}

func (o RemoteObject) HasValue() bool {
	return len(o.Value) > 0
}

// IsPromise reports whether the object is a not yet settled promise handle
// rather than a final value.
func (o RemoteObject) IsPromise() bool {
	return o.Type == "object" && (o.Subtype == "promise" || o.ClassName == "Promise")
}

type EvaluateParams struct {
	Expression      string `json:"expression"`
	ReturnByValue   bool   `json:"returnByValue"`
	AwaitPromise    bool   `json:"awaitPromise"`
	UserGesture     bool   `json:"userGesture"`
	GeneratePreview bool   `json:"generatePreview"`
}

type AwaitPromiseParams struct {
	PromiseObjectID string `json:"promiseObjectId"`
	ReturnByValue   bool   `json:"returnByValue"`
	GeneratePreview bool   `json:"generatePreview"`
}

// EvaluateResult is the result payload of both Runtime.evaluate and
// Runtime.awaitPromise.
type EvaluateResult struct {
	Result           *RemoteObject     `json:"result,omitempty"`
	ExceptionDetails *ExceptionDetails `json:"exceptionDetails,omitempty"`
}

type ExceptionDetails struct {
	ExceptionID  int           `json:"exceptionId"`
	Text         string        `json:"text"`
	LineNumber   int           `json:"lineNumber"`
	ColumnNumber int           `json:"columnNumber"`
	URL          string        `json:"url,omitempty"`
	Exception    *RemoteObject `json:"exception,omitempty"`
}

// Describe picks the most useful text for an exception.
func (d ExceptionDetails) Describe() string {
	if d.Exception != nil && d.Exception.Description != "" {
		return d.Exception.Description
	}
	if d.Text != "" {
		return d.Text
	}
	return "Exception"
}

type ConsoleAPICalledParams struct {
	Type               string         `json:"type"`
	Args               []RemoteObject `json:"args"`
	ExecutionContextID int            `json:"executionContextId"`
	Timestamp          float64        `json:"timestamp"`
	StackTrace         *StackTrace    `json:"stackTrace,omitempty"`
}

type StackTrace struct {
	Description string      `json:"description,omitempty"`
	CallFrames  []CallFrame `json:"callFrames"`
}

type CallFrame struct {
	FunctionName string `json:"functionName"`
	ScriptID     string `json:"scriptId"`
	URL          string `json:"url"`
	LineNumber   int    `json:"lineNumber"`
	ColumnNumber int    `json:"columnNumber"`
}
