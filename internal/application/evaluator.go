package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/bnema/rnbridge/internal/ports"
	"github.com/bnema/rnbridge/internal/protocol"
	"github.com/go-logr/logr"
)

const DefaultEvalTimeout = 10 * time.Second

type EvalOptions struct {
	AwaitPromise bool
	Timeout      time.Duration
}

// Evaluator runs one expression in a target runtime. Enabling the runtime,
// evaluating and, when needed, awaiting a promise all share one deadline.
type Evaluator struct {
	Log logr.Logger
}

func (e Evaluator) Evaluate(ctx context.Context, session ports.InspectorSession, expression string, opts EvalOptions) (domain.EvalResult, error) {
	timeout := EvalBudget(opts.Timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := session.Call(ctx, protocol.MethodRuntimeEnable, nil); err != nil {
		var protoErr *protocol.Error
		switch {
		case errors.As(err, &protoErr):
			e.Log.V(1).Info("runtime refused Runtime.enable, evaluating anyway", "error", protoErr.Error())
		case deadlineExpired(ctx, err):
			return timeoutResult(timeout), nil
		default:
			return domain.EvalResult{}, fmt.Errorf("enable runtime: %w", err)
		}
	}

	params := protocol.EvaluateParams{
		Expression:      expression,
		ReturnByValue:   true,
		AwaitPromise:    opts.AwaitPromise,
		UserGesture:     true,
		GeneratePreview: true,
	}
	reply, err := e.call(ctx, session, protocol.MethodRuntimeEvaluate, params)
	if err != nil {
		return e.failed(ctx, timeout, "evaluate expression", err)
	}
	if !opts.AwaitPromise || !pendingPromise(reply) {
		return settledResult(reply), nil
	}

	// The runtime did not await. A promise returned by value has no handle,
	// so evaluate again by reference to get one.
	promise := reply.Result
	if promise.ObjectID == "" {
		e.Log.V(1).Info("runtime returned an unsettled promise by value, evaluating by reference")
		params.ReturnByValue = false
		reply, err = e.call(ctx, session, protocol.MethodRuntimeEvaluate, params)
		if err != nil {
			return e.failed(ctx, timeout, "evaluate expression by reference", err)
		}
		if !pendingPromise(reply) {
			return settledResult(reply), nil
		}
		promise = reply.Result
		if promise.ObjectID == "" {
			return domain.EvalResult{}, errors.New("runtime returned an unsettled promise without a handle")
		}
	}

	e.Log.V(1).Info("awaiting promise by handle", "objectId", promise.ObjectID)
	reply, err = e.call(ctx, session, protocol.MethodRuntimeAwaitPromise, protocol.AwaitPromiseParams{
		PromiseObjectID: promise.ObjectID,
		ReturnByValue:   true,
		GeneratePreview: true,
	})
	if err != nil {
		return e.failed(ctx, timeout, "await promise", err)
	}
	if pendingPromise(reply) {
		return domain.EvalResult{}, errors.New("await promise: runtime returned an unsettled promise")
	}
	return settledResult(reply), nil
}

func (e Evaluator) call(ctx context.Context, session ports.InspectorSession, method string, params any) (protocol.EvaluateResult, error) {
	raw, err := session.Call(ctx, method, params)
	if err != nil {
		return protocol.EvaluateResult{}, err
	}
	return decodeEvaluateResult(raw)
}

// failed turns an expired budget into a timeout outcome and wraps anything
// else.
func (e Evaluator) failed(ctx context.Context, timeout time.Duration, step string, err error) (domain.EvalResult, error) {
	if deadlineExpired(ctx, err) {
		e.Log.V(1).Info("evaluation budget ran out", "step", step, "timeout", timeout)
		return timeoutResult(timeout), nil
	}
	return domain.EvalResult{}, fmt.Errorf("%s: %w", step, err)
}

func pendingPromise(reply protocol.EvaluateResult) bool {
	return reply.ExceptionDetails == nil && reply.Result != nil && reply.Result.IsPromise()
}

// EvalBudget is the time an evaluation asked to finish within timeout is
// actually given.
func EvalBudget(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultEvalTimeout
	}
	return timeout
}

func decodeEvaluateResult(raw json.RawMessage) (protocol.EvaluateResult, error) {
	var reply protocol.EvaluateResult
	if len(raw) == 0 {
		return reply, nil
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return protocol.EvaluateResult{}, fmt.Errorf("decode evaluation result: %w", err)
	}
	return reply, nil
}

func settledResult(reply protocol.EvaluateResult) domain.EvalResult {
	if reply.ExceptionDetails != nil {
		return domain.EvalResult{
			Outcome:   domain.EvalException,
			Exception: reply.ExceptionDetails.Describe(),
		}
	}

	result := domain.EvalResult{
		Outcome: domain.EvalSuccess,
		Value:   renderResult(reply.Result),
		Type:    "undefined",
	}
	if reply.Result != nil {
		result.Type = reply.Result.Type
	}
	return result
}

func timeoutResult(timeout time.Duration) domain.EvalResult {
	return domain.EvalResult{
		Outcome:   domain.EvalTimeout,
		Exception: fmt.Sprintf("%s after %s", domain.ErrTimeout, timeout),
	}
}

// deadlineExpired reports whether err is the evaluation budget running out,
// as opposed to the caller cancelling.
func deadlineExpired(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded)
}
