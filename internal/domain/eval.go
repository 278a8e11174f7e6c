package domain

type EvalOutcome string

const (
	EvalSuccess   EvalOutcome = "success"
	EvalException EvalOutcome = "exception"
	EvalTimeout   EvalOutcome = "timeout"
)

// EvalResult is the rendered outcome of one expression evaluation. Remote
// values never cross the boundary as native objects, only as text.
type EvalResult struct {
	Outcome   EvalOutcome `json:"outcome"`
	Value     string      `json:"output,omitempty"`
	Type      string      `json:"type,omitempty"`
	Exception string      `json:"error,omitempty"`
}

func (r EvalResult) Succeeded() bool {
	return r.Outcome == EvalSuccess
}
