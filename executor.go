package linn

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"github.com/Jan-Fryblik/linn/internal/ctxlog"
)

// An Executor rewrites an axiom generation after generation and drives a
// turtle over each generation it produces.
//
// Callbacks are invoked synchronously on the calling goroutine. Calling back
// into the Executor from a callback is not supported. An Executor is not safe
// for concurrent use.
type Executor struct {
	grammar  *Grammar
	rewriter *Rewriter
	turtle   *Turtle

	axiom      []Symbol
	generation []Symbol
	iterations int

	running bool
}

// ProductionResult returns a copy of the current generation, the axiom before any iteration.
func (e *Executor) ProductionResult() []Symbol {
	return slices.Clone(e.generation)
}

// IterationCount is the number of completed iterations.
func (e *Executor) IterationCount() int {
	return e.iterations
}

func (e *Executor) Grammar() *Grammar {
	return e.grammar
}

// Turtle returns the turtle state as left by the last interpreted generation.
func (e *Executor) Turtle() State {
	return e.turtle.State()
}

// Reset goes back to the axiom with a zero iteration count. The random source is not rewound.
func (e *Executor) Reset() {
	e.generation = slices.Clone(e.axiom)
	e.iterations = 0
	e.turtle.Reset()
}

// ExecuteAtMost runs up to maxIterations iterations. An iteration rewrites the
// current generation once, interprets its terminal symbols from a fresh turtle
// and hands the new generation to onIteration, which may be nil.
//
// Rewrite symbols left in a generation are expanded by the next iteration and
// are skipped by the turtle. The loop stops early, without counting an
// iteration, when rewriting yields the current generation unchanged.
//
// On error the run stops. IterationCount and ProductionResult still report
// the last committed iteration.
func (e *Executor) ExecuteAtMost(ctx context.Context, maxIterations int, onIteration func([]Symbol)) error {
	if maxIterations < 0 {
		return errors.Wrapf(ErrInvalidArgument, "negative iteration bound %d", maxIterations)
	}
	if e.running {
		return errors.Wrap(ErrInternal, "executor called from one of its callbacks")
	}
	e.running = true
	defer func() { e.running = false }()

	log := ctxlog.FromContext(ctx)
	for i := 0; i < maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		next, err := e.rewriter.Expand(e.generation)
		if err != nil {
			return errors.WithMessagef(err, "iteration %d", e.iterations+1)
		}
		if slices.Equal(next, e.generation) {
			log.Debug("generation reached a fixed point", "iteration", e.iterations, "length", len(next))
			return nil
		}

		e.generation = next
		e.iterations++

		if err := e.interpret(); err != nil {
			return errors.WithMessagef(err, "iteration %d", e.iterations)
		}
		log.Debug("iteration done", "iteration", e.iterations, "length", len(next))

		if onIteration != nil {
			onIteration(e.ProductionResult())
		}
	}
	return nil
}

func (e *Executor) interpret() error {
	e.turtle.Reset()
	for i, s := range e.generation {
		if !s.IsTerminal() {
			continue
		}
		if err := e.turtle.Step(s); err != nil {
			return errors.WithMessagef(err, "at symbol %d", i)
		}
	}
	return nil
}
