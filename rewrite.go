package linn

import "github.com/pkg/errors"

// Random is the source of the draws used to pick between alternatives.
// Float64 must return a value in [0, 1). *math/rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// A Rewriter produces one generation from the previous one.
//
// A Rewriter owns its random source and must be used from a single goroutine.
type Rewriter struct {
	grammar *Grammar
	rng     Random

	// Reused between calls to hold the alternatives of the rule being expanded
	candidates []*ruleInstance
}

func NewRewriter(g *Grammar, rng Random) *Rewriter {
	return &Rewriter{
		grammar: g,
		rng:     rng,
	}
}

// Expand replaces every rewrite symbol of input by the production of one of its
// rule's alternatives. Terminals are copied unchanged. Symbols coming out of a
// production are not expanded again: one call is one generation.
//
// Every rewrite symbol takes exactly one draw from the random source, even
// when its rule has a single alternative, so that a seeded run consumes the
// same draws whatever the shape of the grammar.
func (rw *Rewriter) Expand(input []Symbol) ([]Symbol, error) {
	output := make([]Symbol, 0, len(input))
	for i, s := range input {
		if s.IsTerminal() {
			output = append(output, s)
			continue
		}

		inst, err := rw.choose(s.Rule)
		if err != nil {
			return nil, errors.WithMessagef(err, "expanding symbol %d", i)
		}
		output = append(output, inst.productions...)
	}
	return output, nil
}

// choose picks one alternative of name, each with probability weight/sum(weights).
// Exactly one draw is taken from the random source, even for a lone alternative.
func (rw *Rewriter) choose(name string) (*ruleInstance, error) {
	slots, ok := rw.grammar.byName[name]
	if !ok || len(slots) == 0 {
		return nil, errors.Wrapf(ErrUnknownRule, "rule %q", name)
	}

	rw.candidates = rw.candidates[:0]
	var max float64
	for _, slot := range slots {
		inst := &rw.grammar.arena[slot]
		rw.candidates = append(rw.candidates, inst)
		if inst.weight > max {
			max = inst.weight
		}
	}
	if max <= 0 {
		return nil, errors.Wrapf(ErrInvalidGrammar, "all alternatives of rule %q have zero weight", name)
	}

	// Weights are scaled by the largest one so that their sum stays finite
	var sum float64
	for _, inst := range rw.candidates {
		sum += inst.weight / max
	}

	// Roll, then walk the cumulative weights in declaration order
	n := rw.rng.Float64() * sum
	cum := float64(0)
	var last *ruleInstance
	for _, inst := range rw.candidates {
		if inst.weight == 0 {
			continue
		}
		cum += inst.weight / max
		if n < cum {
			return inst, nil
		}
		last = inst
	}

	// Rounding can leave n just above the final cumulative sum
	return last, nil
}
