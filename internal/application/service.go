package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/ports"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
)

var ErrEmptyExpression = errors.New("expression is empty")

var errNoTargetsYet = errors.New("no apps connected yet")

const (
	defaultPollInterval    = 250 * time.Millisecond
	defaultMaxPollInterval = 2 * time.Second
	enableTimeout          = 5 * time.Second
)

type Service struct {
	discoverer ports.TargetDiscoverer
	dialer     ports.SessionDialer
	evaluator  Evaluator
	collector  Collector
	log        logr.Logger

	pollInterval    time.Duration
	maxPollInterval time.Duration
}

func NewService(discoverer ports.TargetDiscoverer, dialer ports.SessionDialer, log logr.Logger) *Service {
	return &Service{
		discoverer:      discoverer,
		dialer:          dialer,
		evaluator:       Evaluator{Log: log.WithName("eval")},
		collector:       Collector{Log: log.WithName("logs")},
		log:             log,
		pollInterval:    defaultPollInterval,
		maxPollInterval: defaultMaxPollInterval,
	}
}

func (s *Service) ListTargets(ctx context.Context) ([]domain.Target, error) {
	return s.discoverer.Discover(ctx)
}

// WaitForTargets polls discovery until at least one app is connected or
// wait elapses. Discovery failures are retried too, since Metro may still
// be starting. Running out of time with no apps is not an error.
func (s *Service) WaitForTargets(ctx context.Context, wait time.Duration) ([]domain.Target, error) {
	if wait <= 0 {
		return s.ListTargets(ctx)
	}

	policy := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(s.pollInterval),
		backoff.WithMaxInterval(s.maxPollInterval),
		backoff.WithMaxElapsedTime(wait),
	)

	operation := func() ([]domain.Target, error) {
		targets, err := s.discoverer.Discover(ctx)
		if err != nil {
			return nil, err
		}
		if len(targets) == 0 {
			return nil, errNoTargetsYet
		}
		return targets, nil
	}
	notify := func(err error, next time.Duration) {
		s.log.V(1).Info("waiting for an app to connect", "reason", err.Error(), "retryIn", next)
	}

	targets, err := backoff.RetryNotifyWithData(operation, backoff.WithContext(policy, ctx), notify)
	if err != nil {
		if errors.Is(err, errNoTargetsYet) {
			return []domain.Target{}, nil
		}
		return nil, err
	}
	return targets, nil
}

// ResolveTarget discovers the connected apps and picks one. Errors here
// happen before any connection is opened.
func (s *Service) ResolveTarget(ctx context.Context, explicitID domain.TargetID, wait time.Duration) (domain.Target, error) {
	targets, err := s.WaitForTargets(ctx, wait)
	if err != nil {
		return domain.Target{}, err
	}

	target, err := domain.SelectTarget(targets, explicitID)
	if err != nil {
		var noTarget *domain.NoTargetError
		if errors.As(err, &noTarget) && noTarget.URL == "" {
			noTarget.URL = s.discoverer.BaseURL()
		}
		return domain.Target{}, err
	}

	s.log.V(1).Info("selected target", "id", target.ID, "title", target.Title)
	return target, nil
}

func (s *Service) Execute(ctx context.Context, cmd ExecuteCommand) (domain.EvalResult, error) {
	if strings.TrimSpace(cmd.Expression) == "" {
		return domain.EvalResult{}, ErrEmptyExpression
	}

	target, err := s.ResolveTarget(ctx, cmd.TargetID, cmd.WaitForApp)
	if err != nil {
		return domain.EvalResult{}, err
	}
	return s.ExecuteOn(ctx, target, cmd)
}

// ExecuteOn evaluates on an already resolved target. cmd.TargetID and
// cmd.WaitForApp are ignored.
func (s *Service) ExecuteOn(ctx context.Context, target domain.Target, cmd ExecuteCommand) (result domain.EvalResult, err error) {
	if strings.TrimSpace(cmd.Expression) == "" {
		return domain.EvalResult{}, ErrEmptyExpression
	}

	session, err := s.dialer.Dial(ctx, target)
	if err != nil {
		return domain.EvalResult{}, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	return s.evaluator.Evaluate(ctx, session, cmd.Expression, EvalOptions{
		AwaitPromise: cmd.AwaitPromise,
		Timeout:      cmd.Timeout,
	})
}

// StreamLogs forwards console entries to yield until the stream ends. It
// returns the number of entries forwarded. A yield error stops the stream
// and is returned as is.
func (s *Service) StreamLogs(ctx context.Context, cmd StreamLogsCommand, yield func(domain.LogEntry) error) (int, error) {
	target, err := s.ResolveTarget(ctx, cmd.TargetID, cmd.WaitForApp)
	if err != nil {
		return 0, err
	}
	return s.StreamLogsOn(ctx, target, cmd, yield)
}

func (s *Service) StreamLogsOn(ctx context.Context, target domain.Target, cmd StreamLogsCommand, yield func(domain.LogEntry) error) (count int, err error) {
	session, err := s.dialer.Dial(ctx, target)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	stream, err := s.collector.Collect(ctx, session, CollectOptions{
		Filter:  cmd.Filter,
		MaxLogs: cmd.MaxLogs,
		Timeout: cmd.Timeout,
	})
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	if err := s.enableRuntime(ctx, session); err != nil {
		return 0, err
	}

	for entry := range stream.All() {
		count++
		if err := yield(entry); err != nil {
			return count, err
		}
	}
	return count, nil
}

// enableRuntime turns on console reporting. A runtime that rejects or
// ignores the request may still report, so only a lost connection is fatal.
func (s *Service) enableRuntime(ctx context.Context, session ports.InspectorSession) error {
	ctx, cancel := context.WithTimeout(ctx, enableTimeout)
	defer cancel()

	_, err := session.Call(ctx, protocol.MethodRuntimeEnable, nil)
	var protoErr *protocol.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &protoErr):
		s.log.Info("runtime refused Runtime.enable, collecting anyway", "error", protoErr.Error())
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		s.log.V(1).Info("Runtime.enable got no reply, collecting anyway")
		return nil
	default:
		return fmt.Errorf("enable runtime: %w", err)
	}
}
