// Package preware runs the ordered precondition steps of a route.
//
// Each step returns an Outcome: Continue with an optional value, or Fail with
// an error. Steps run strictly in order; the first failure stops the pipeline
// and its error is returned unchanged. Values of successful steps are stored
// under the step's Assign key and are visible to later steps and to the
// handler.
//
//	pre, err := preware.Run(ctx,
//	    authz.EnsureAdminGroup(models.GroupRoot),
//	    preware.Step{Assign: "usernameCheck", Run: checkUsername},
//	)
//	if err != nil {
//	    httperr.Write(w, r, err)
//	    return
//	}
package preware

import (
	"context"
	"fmt"
)

// Outcome is the tagged result of a single step.
type Outcome struct {
	value any
	err   error
}

// Continue lets the pipeline proceed, recording v under the step's Assign key.
func Continue(v any) Outcome {
	return Outcome{value: v}
}

// Fail stops the pipeline with err.
func Fail(err error) Outcome {
	if err == nil {
		err = fmt.Errorf("preware: step failed without an error")
	}
	return Outcome{err: err}
}

// Failed reports whether the outcome stops the pipeline.
func (o Outcome) Failed() bool { return o.err != nil }

// Err returns the failure error, or nil.
func (o Outcome) Err() error { return o.err }

// Value returns the continue value.
func (o Outcome) Value() any { return o.value }

// Step is a named precondition.
type Step struct {
	// Assign is the key the step's value is stored under. Empty discards it.
	Assign string
	Run    func(ctx context.Context, pre Values) Outcome
}

// Values holds the results of completed steps.
type Values map[string]any

// Value returns the value stored under key as a T.
func Value[T any](pre Values, key string) (T, bool) {
	v, ok := pre[key].(T)
	return v, ok
}

// Run executes steps in order and returns the collected values, or the error
// of the first failing step. Steps after a failure never run. A cancelled
// context stops the pipeline before the next step.
func Run(ctx context.Context, steps ...Step) (Values, error) {
	pre := make(Values, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return pre, err
		}
		out := s.Run(ctx, pre)
		if out.Failed() {
			return pre, out.Err()
		}
		if s.Assign != "" {
			pre[s.Assign] = out.Value()
		}
	}
	return pre, nil
}
