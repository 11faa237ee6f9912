package lsif

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Jan-Fryblik/linn"
)

// defaults holds the values parameterless tokens stand for.
type defaults struct {
	move, yaw, pitch, roll float64
}

func (d defaults) environment() Constants {
	return Constants{
		"default_move":  d.move,
		"default_yaw":   d.yaw,
		"default_pitch": d.pitch,
		"default_roll":  d.roll,
	}
}

func (format *Format) resolveDefaults(env Environment) (defaults, error) {
	d := defaults{
		move:  linn.DefaultMoveLength,
		yaw:   linn.DefaultAngle,
		pitch: linn.DefaultAngle,
		roll:  linn.DefaultAngle,
	}
	for _, field := range []struct {
		name string
		expr Expression
		to   *float64
	}{
		{"move", format.Defaults.Move, &d.move},
		{"yaw", format.Defaults.Yaw, &d.yaw},
		{"pitch", format.Defaults.Pitch, &d.pitch},
		{"roll", format.Defaults.Roll, &d.roll},
	} {
		if field.expr == "" {
			continue
		}
		v, err := Evaluate(string(field.expr), env)
		if err != nil {
			return d, errors.WithMessagef(err, "default %s", field.name)
		}
		*field.to = v
	}
	return d, nil
}

// Import builds the grammar and the axiom described by the document.
func (format *Format) Import() (*linn.Grammar, []linn.Symbol, error) {
	constants, err := resolveConstants(format.Constants)
	if err != nil {
		return nil, nil, err
	}

	d, err := format.resolveDefaults(layeredEnvironment{Builtins, constants})
	if err != nil {
		return nil, nil, err
	}
	env := layeredEnvironment{Builtins, d.environment(), constants}

	b := linn.NewGrammar(format.Name).
		WithAuthor(format.Author).
		WithDefaultMoveLength(d.move).
		WithDefaultYawAngle(d.yaw).
		WithDefaultPitchAngle(d.pitch).
		WithDefaultRollAngle(d.roll)
	if format.Created != nil {
		b.WithCreationTime(*format.Created)
	}

	for i, definedRule := range format.Rules {
		rb := b.WithRule(definedRule.Name)
		if definedRule.Weight != "" {
			w, err := Evaluate(string(definedRule.Weight), env)
			if err != nil {
				return nil, nil, errors.WithMessagef(err, "rule %d (%s) weight", i, definedRule.Name)
			}
			rb.AndWeight(w)
		}

		symbols, err := parseTokens(definedRule.Production, d, env)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "rule %d (%s)", i, definedRule.Name)
		}
		rb.AndProduction().Symbols(symbols...).Done()
	}

	grammar, err := b.Build()
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "grammar %q", format.Name)
	}

	axiom, err := parseTokens(format.Axiom, d, env)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "axiom")
	}
	return grammar, axiom, nil
}

func parseTokens(tokens []string, d defaults, env Environment) ([]linn.Symbol, error) {
	symbols := make([]linn.Symbol, len(tokens))
	for i, token := range tokens {
		s, err := parseToken(token, d, env)
		if err != nil {
			return nil, errors.WithMessagef(err, "token %d", i)
		}
		symbols[i] = s
	}
	return symbols, nil
}

// parseToken turns one token into a symbol.
func parseToken(token string, d defaults, env Environment) (linn.Symbol, error) {
	name, expr, hasExpr, err := splitToken(token)
	if err != nil {
		return linn.Symbol{}, err
	}

	var (
		kind     linn.Kind
		negative bool
	)
	switch name {
	case "F", "move":
		kind = linn.Move
	case "yaw", "+":
		kind = linn.Yaw
	case "-":
		kind, negative = linn.Yaw, true
	case "pitch", "&":
		kind = linn.Pitch
	case "^":
		kind, negative = linn.Pitch, true
	case "roll", "\\":
		kind = linn.Roll
	case "/":
		kind, negative = linn.Roll, true
	case "[", "]":
		if hasExpr {
			return linn.Symbol{}, errors.Wrapf(linn.ErrInvalidArgument, "branch token %q takes no parameter", token)
		}
		if name == "[" {
			return linn.Open(), nil
		}
		return linn.Close(), nil
	default:
		if hasExpr {
			return linn.Symbol{}, errors.Wrapf(linn.ErrInvalidArgument, "rewrite token %q takes no parameter", token)
		}
		return linn.RewriteOf(name), nil
	}

	if !hasExpr {
		if !negative {
			return linn.Symbol{Kind: kind}, nil
		}
		switch kind {
		case linn.Yaw:
			return linn.TurnBy(kind, -d.yaw), nil
		case linn.Pitch:
			return linn.TurnBy(kind, -d.pitch), nil
		default:
			return linn.TurnBy(kind, -d.roll), nil
		}
	}

	v, err := Evaluate(expr, env)
	if err != nil {
		return linn.Symbol{}, err
	}
	if kind == linn.Move {
		if v <= 0 {
			return linn.Symbol{}, errors.Wrapf(linn.ErrInvalidArgument, "move length %v in %q is not positive", v, token)
		}
		return linn.MoveBy(v), nil
	}
	if negative {
		v = -v
	}
	return linn.TurnBy(kind, v), nil
}

// splitToken separates "name(expr)" into its parts.
func splitToken(token string) (name, expr string, hasExpr bool, err error) {
	open := strings.IndexByte(token, '(')
	if open < 0 {
		if token == "" {
			return "", "", false, errors.Wrap(linn.ErrInvalidArgument, "empty token")
		}
		return token, "", false, nil
	}
	if open == 0 || !strings.HasSuffix(token, ")") {
		return "", "", false, errors.Wrapf(linn.ErrInvalidArgument, "malformed token %q", token)
	}
	expr = strings.TrimSpace(token[open+1 : len(token)-1])
	if expr == "" {
		return "", "", false, errors.Wrapf(linn.ErrInvalidArgument, "empty parameter in %q", token)
	}
	return token[:open], expr, true, nil
}
