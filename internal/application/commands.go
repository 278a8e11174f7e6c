package application

import (
	"time"

	"github.com/bnema/rnbridge/internal/domain"
)

type ExecuteCommand struct {
	// TargetID may be empty when a single app is connected.
	TargetID     domain.TargetID
	Expression   string
	AwaitPromise bool
	Timeout      time.Duration
	WaitForApp   time.Duration
}

type StreamLogsCommand struct {
	TargetID   domain.TargetID
	Filter     string
	MaxLogs    int
	Timeout    time.Duration
	WaitForApp time.Duration
}
