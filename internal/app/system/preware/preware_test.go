package preware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_InOrderWithValues(t *testing.T) {
	var order []string
	steps := []Step{
		{Assign: "a", Run: func(ctx context.Context, pre Values) Outcome {
			order = append(order, "a")
			return Continue(1)
		}},
		{Assign: "b", Run: func(ctx context.Context, pre Values) Outcome {
			order = append(order, "b")
			a, ok := Value[int](pre, "a")
			require.True(t, ok)
			return Continue(a + 1)
		}},
		{Run: func(ctx context.Context, pre Values) Outcome {
			order = append(order, "c")
			return Continue("discarded")
		}},
	}

	pre, err := Run(context.Background(), steps...)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)

	b, ok := Value[int](pre, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, b)
	assert.Len(t, pre, 2)
}

func TestRun_ShortCircuits(t *testing.T) {
	boom := errors.New("conflict")
	ran := false
	_, err := Run(context.Background(),
		Step{Run: func(ctx context.Context, pre Values) Outcome { return Fail(boom) }},
		Step{Run: func(ctx context.Context, pre Values) Outcome {
			ran = true
			return Continue(nil)
		}},
	)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ran, "step after failure must not run")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	_, err := Run(ctx, Step{Run: func(ctx context.Context, pre Values) Outcome {
		ran = true
		return Continue(nil)
	}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestFail_NilError(t *testing.T) {
	out := Fail(nil)
	assert.True(t, out.Failed())
	assert.Error(t, out.Err())
}

func TestValue_WrongType(t *testing.T) {
	pre := Values{"k": "string"}
	_, ok := Value[int](pre, "k")
	assert.False(t, ok)
	_, ok = Value[int](pre, "missing")
	assert.False(t, ok)
}
