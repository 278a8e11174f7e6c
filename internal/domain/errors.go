package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTimeout      = errors.New("timed out waiting for the app")
	ErrDisconnected = errors.New("inspector connection closed")
)

// DiscoveryError reports that the bundler's target list could not be read.
type DiscoveryError struct {
	URL string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("cannot query Metro at %s (is Metro running?): %v", e.URL, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

type NoTargetError struct {
	URL string
}

func (e *NoTargetError) Error() string {
	if e.URL == "" {
		return "no React Native apps connected: start the app and make sure it is connected to Metro"
	}
	return fmt.Sprintf("no React Native apps connected to Metro at %s: start the app and make sure it is connected to Metro", e.URL)
}

type AmbiguousTargetError struct {
	Candidates []Target
}

func (e *AmbiguousTargetError) Error() string {
	return "multiple apps connected, specify --app-id.\n" + candidateList(e.Candidates)
}

type NotFoundError struct {
	ID         TargetID
	Candidates []Target
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("app with ID %q not found.\n%s", e.ID, candidateList(e.Candidates))
}

type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("inspector connection to %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// RemoteException is an evaluation error thrown inside the app. It is an
// outcome of the evaluation, not a fault of the bridge.
type RemoteException struct {
	Description string
}

func (e *RemoteException) Error() string {
	return e.Description
}

// TimeoutError is an evaluation that produced no result within its budget.
// Message is the evaluator's description and names the budget applied.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return ErrTimeout.Error()
	}
	return e.Message
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

func candidateList(targets []Target) string {
	var b strings.Builder
	b.WriteString("Available apps:")
	for _, target := range targets {
		fmt.Fprintf(&b, "\n  - %s: %s", target.ID, target.DisplayName())
	}
	return b.String()
}
