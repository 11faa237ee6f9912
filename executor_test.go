package linn

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_ExecuteAtMost_Zero(t *testing.T) {
	ex, err := NewExecutor().
		UseGrammar(bushGrammar(t)).
		WithRandom(fixedRandom(0)).
		WithAxiom().Rewrite("H").Done().
		Build()
	require.NoError(t, err)

	called := false
	require.NoError(t, ex.ExecuteAtMost(context.Background(), 0, func([]Symbol) { called = true }))
	assert.False(t, called)
	assert.Equal(t, 0, ex.IterationCount())
	assert.Equal(t, []Symbol{RewriteOf("H")}, ex.ProductionResult())

	assert.ErrorIs(t, ex.ExecuteAtMost(context.Background(), -1, nil), ErrInvalidArgument)
}

func TestExecutor_ExecuteAtMost_Growth(t *testing.T) {
	var moves int
	ex, err := NewExecutor().
		UseGrammar(bushGrammar(t)).
		OnStateChanged(func(State) { moves++ }).
		WithRandom(fixedRandom(0)).
		WithAxiom().Rewrite("H").Done().
		Build()
	require.NoError(t, err)

	var lengths []int
	err = ex.ExecuteAtMost(context.Background(), 100, func(generation []Symbol) {
		lengths = append(lengths, len(generation))
	})
	require.NoError(t, err)
	assert.Equal(t, 100, ex.IterationCount())

	want := make([]Symbol, 0, 101)
	for i := 0; i < 100; i++ {
		want = append(want, Forward())
	}
	want = append(want, RewriteOf("H"))
	if diff := cmp.Diff(want, ex.ProductionResult()); diff != "" {
		t.Errorf("final generation mismatch (-want +got):\n%s", diff)
	}

	// Each iteration grows the generation by one move, and the turtle walks every move of it
	require.Len(t, lengths, 100)
	for i, l := range lengths {
		assert.Equal(t, i+2, l)
	}
	assert.Equal(t, 100*101/2, moves)
	assertVec(t, Vec3{0, 100, 0}, ex.Turtle().Position)
}

func TestExecutor_ExecuteAtMost_Stochastic(t *testing.T) {
	ex, err := NewExecutor().
		UseGrammar(bushGrammar(t)).
		WithSeed(7).
		WithAxiom().Rewrite("H").Done().
		Build()
	require.NoError(t, err)

	var previous []Symbol
	err = ex.ExecuteAtMost(context.Background(), 100, func(generation []Symbol) {
		last := generation[len(generation)-1]
		if last.Kind == Rewrite {
			// Grew by exactly one move
			want := 2
			if previous != nil {
				want = len(previous) + 1
			}
			assert.Len(t, generation, want)
		} else {
			for _, s := range generation {
				assert.Equal(t, Move, s.Kind)
			}
		}
		previous = generation
	})
	require.NoError(t, err)

	// Once terminated, the next iteration is a fixed point
	result := ex.ProductionResult()
	if result[len(result)-1].Kind != Rewrite {
		assert.Equal(t, len(result), ex.IterationCount())
	}
}

func TestExecutor_ExecuteAtMost_FixedPoint(t *testing.T) {
	g, err := NewGrammar("fixed").
		WithRule("H").AndProduction().F().Done().
		Build()
	require.NoError(t, err)

	ex, err := NewExecutor().UseGrammar(g).WithAxiom().Rewrite("H").Done().Build()
	require.NoError(t, err)

	calls := 0
	require.NoError(t, ex.ExecuteAtMost(context.Background(), 10, func([]Symbol) { calls++ }))
	assert.Equal(t, 1, ex.IterationCount())
	assert.Equal(t, 1, calls)
	assert.Equal(t, []Symbol{Forward()}, ex.ProductionResult())
}

func TestExecutor_ExecuteAtMost_SkipsResidualRewrites(t *testing.T) {
	g, err := NewGrammar("residual").
		WithRule("A").AndProduction().F().Rewrite("B").F().Done().
		WithRule("B").AndProduction().TurnYaw().Done().
		Build()
	require.NoError(t, err)

	var causes []Symbol
	ex, err := NewExecutor().
		UseGrammar(g).
		OnStateChanged(func(s State) { causes = append(causes, s.Cause) }).
		WithAxiom().Rewrite("A").Done().
		Build()
	require.NoError(t, err)

	require.NoError(t, ex.ExecuteAtMost(context.Background(), 1, nil))
	assert.Equal(t, []Symbol{Forward(), Forward()}, causes)

	causes = nil
	require.NoError(t, ex.ExecuteAtMost(context.Background(), 1, nil))
	assert.Equal(t, []Symbol{Forward(), Turn(Yaw), Forward()}, causes)
	assert.Equal(t, 2, ex.IterationCount())
}

func TestExecutor_ExecuteAtMost_Errors(t *testing.T) {
	t.Run("unbalanced branch keeps the failing generation", func(t *testing.T) {
		g := New("broken")
		require.NoError(t, g.AddRule(1, "H"))
		require.NoError(t, g.AppendProduction(1, Close()))

		ex, err := NewExecutor().UseGrammar(g).WithAxiom().F().Rewrite("H").Done().Build()
		require.NoError(t, err)

		err = ex.ExecuteAtMost(context.Background(), 5, func([]Symbol) { t.Error("callback after failure") })
		assert.ErrorIs(t, err, ErrUnbalancedBranch)
		assert.Equal(t, 1, ex.IterationCount())
		assert.Equal(t, []Symbol{Forward(), Close()}, ex.ProductionResult())
	})

	t.Run("invalid grammar mid-run", func(t *testing.T) {
		g := New("zero")
		require.NoError(t, g.AddRule(1, "H"))
		require.NoError(t, g.AppendProduction(1, RewriteOf("Z")))
		require.NoError(t, g.AddRule(2, "Z"))

		ex, err := NewExecutor().UseGrammar(g).WithAxiom().Rewrite("H").Done().Build()
		require.NoError(t, err)
		require.NoError(t, g.SetWeight(2, 0))

		err = ex.ExecuteAtMost(context.Background(), 5, nil)
		assert.ErrorIs(t, err, ErrInvalidGrammar)
		assert.Equal(t, 1, ex.IterationCount())
		assert.Equal(t, []Symbol{RewriteOf("Z")}, ex.ProductionResult())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ex, err := NewExecutor().UseGrammar(bushGrammar(t)).WithAxiom().Rewrite("H").Done().Build()
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, ex.ExecuteAtMost(ctx, 5, nil), context.Canceled)
		assert.Equal(t, 0, ex.IterationCount())
	})

	t.Run("reentrant call", func(t *testing.T) {
		ex, err := NewExecutor().
			UseGrammar(bushGrammar(t)).
			WithRandom(fixedRandom(0)).
			WithAxiom().Rewrite("H").Done().
			Build()
		require.NoError(t, err)

		var inner error
		require.NoError(t, ex.ExecuteAtMost(context.Background(), 1, func([]Symbol) {
			inner = ex.ExecuteAtMost(context.Background(), 1, nil)
		}))
		assert.ErrorIs(t, inner, ErrInternal)
		assert.Equal(t, 1, ex.IterationCount())
	})
}

func TestExecutor_Reset(t *testing.T) {
	ex, err := NewExecutor().
		UseGrammar(bushGrammar(t)).
		WithRandom(fixedRandom(0)).
		WithAxiom().Rewrite("H").Done().
		Build()
	require.NoError(t, err)

	require.NoError(t, ex.ExecuteAtMost(context.Background(), 3, nil))
	ex.Reset()
	assert.Equal(t, 0, ex.IterationCount())
	assert.Equal(t, []Symbol{RewriteOf("H")}, ex.ProductionResult())
	assert.Equal(t, Vec3{}, ex.Turtle().Position)
}
