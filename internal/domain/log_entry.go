package domain

import (
	"fmt"
	"time"
)

type LogLevel string

const (
	LogLevelLog   LogLevel = "log"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelDebug LogLevel = "debug"
)

// ParseLogLevel maps a console API call type onto a LogLevel. Types without
// a level of their own (dir, table, trace, ...) are reported as log.
func ParseLogLevel(consoleType string) LogLevel {
	switch consoleType {
	case "warning", "warn":
		return LogLevelWarn
	case "error", "assert":
		return LogLevelError
	case "info":
		return LogLevelInfo
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelLog
	}
}

// Locatable reports whether entries of this level carry a source location.
func (l LogLevel) Locatable() bool {
	return l == LogLevelWarn || l == LogLevelError
}

type Location struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column,omitempty"`
	Function string `json:"function,omitempty"`
}

func (l Location) String() string {
	function := l.Function
	if function == "" {
		function = "anonymous"
	}
	if l.File == "" {
		return fmt.Sprintf("%s (line %d)", function, l.Line)
	}
	return fmt.Sprintf("%s (%s:%d)", function, l.File, l.Line)
}

type LogEntry struct {
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Location  *Location `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}
