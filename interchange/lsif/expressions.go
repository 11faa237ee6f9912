package lsif

import (
	"math"
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"
)

// parameters adapts an Environment to govaluate.
type parameters struct {
	env Environment
}

func (p parameters) Get(name string) (interface{}, error) {
	val, err := p.env.Get(name)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Evaluate computes expr against env. The result must be a finite number.
func Evaluate(expr string, env Environment) (float64, error) {
	// Plain scalars don't need the expression engine
	if scalar, err := strconv.ParseFloat(expr, 64); err == nil {
		return checkFinite(expr, scalar)
	}

	evaluable, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing expression %q", expr)
	}

	result, err := evaluable.Eval(parameters{env})
	if err != nil {
		return 0, errors.Wrapf(err, "evaluating expression %q", expr)
	}

	asFloat, ok := result.(float64)
	if !ok {
		return 0, errors.Errorf("expression %q yields %T, not a number", expr, result)
	}
	return checkFinite(expr, asFloat)
}

func checkFinite(expr string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("expression %q is not a finite number", expr)
	}
	return v, nil
}

// resolveConstants evaluates document constants, which may refer to builtins
// and to each other in any order.
func resolveConstants(defined map[string]Expression) (Constants, error) {
	resolved := make(Constants, len(defined))
	env := layeredEnvironment{Builtins, resolved}

	pending := make(map[string]Expression, len(defined))
	for name, expr := range defined {
		if _, ok := Builtins[name]; ok {
			return nil, errors.Errorf("constant %q shadows a builtin", name)
		}
		pending[name] = expr
	}

	for len(pending) > 0 {
		progress := false
		var lastErr error
		for name, expr := range pending {
			val, err := Evaluate(string(expr), env)
			if err != nil {
				lastErr = errors.WithMessagef(err, "constant %q", name)
				continue
			}
			resolved[name] = val
			delete(pending, name)
			progress = true
		}
		if !progress {
			return nil, lastErr
		}
	}
	return resolved, nil
}
