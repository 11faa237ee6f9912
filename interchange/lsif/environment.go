package lsif

import (
	"math"

	"github.com/pkg/errors"
)

// Environment resolves the variables an expression refers to.
type Environment interface {
	Get(v string) (float64, error)
}

// Constants is an Environment backed by a fixed set of values.
type Constants map[string]float64

func (c Constants) Get(v string) (float64, error) {
	val, ok := c[v]
	if !ok {
		return 0, errors.Errorf("undefined variable %q", v)
	}
	return val, nil
}

// Builtins are always defined, document constants can't shadow them.
var Builtins = Constants{
	"pi": math.Pi,
	"e":  math.E,
}

// layeredEnvironment looks variables up in each layer in turn.
type layeredEnvironment []Environment

func (env layeredEnvironment) Get(v string) (float64, error) {
	for _, layer := range env {
		if val, err := layer.Get(v); err == nil {
			return val, nil
		}
	}
	return 0, errors.Errorf("undefined variable %q", v)
}
