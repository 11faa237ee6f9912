// Package lsif is the reference implementation for the L-System Interchange Format,
// a YAML document describing a stochastic grammar and its axiom:
//
//	name: bush
//	author: someone
//	defaults: {move: 1, yaw: pi/2}
//	constants: {angle: pi/7}
//	axiom: H
//	rules:
//	  - name: H
//	    weight: 5.5
//	    production: F [ yaw(angle) H ] H
//	  - name: H
//	    weight: 0.5
//	    production: "[ F ]"
//
// Productions and the axiom are token lists, written either as a YAML sequence
// or as one whitespace separated string. A bare [F] is a YAML flow sequence
// holding the token F, so a string starting with a branch must be quoted.
// Every token but the branches takes an optional parenthesized expression
// overriding the default:
//
//	F, move   move forward
//	yaw, +    yaw, - yaws the other way
//	pitch, &  pitch, ^ pitches the other way
//	roll, \   roll, / rolls the other way
//	[, ]      open and close a branch
//
// Anything else is the name of a rule to rewrite. Expressions may use pi, e,
// the document constants and default_move, default_yaw, default_pitch and
// default_roll.
package lsif

import (
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format struct {
	Name      string                `yaml:"name"`
	Author    string                `yaml:"author"`
	Created   *time.Time            `yaml:"created"`
	Defaults  Defaults              `yaml:"defaults"`
	Constants map[string]Expression `yaml:"constants"`
	Axiom     Tokens                `yaml:"axiom"`
	Rules     []Rule                `yaml:"rules"`
}

// Defaults are the grammar defaults, unset ones keep the grammar's own.
type Defaults struct {
	Move  Expression `yaml:"move"`
	Yaw   Expression `yaml:"yaw"`
	Pitch Expression `yaml:"pitch"`
	Roll  Expression `yaml:"roll"`
}

// Rule is one alternative. Several rules may share a name.
type Rule struct {
	Name       string     `yaml:"name"`
	Weight     Expression `yaml:"weight"`
	Production Tokens     `yaml:"production"`
}

// Expression is a numeric scalar or an arithmetic expression, kept as written.
type Expression string

func (e *Expression) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected a number or an expression", node.Line)
	}
	*e = Expression(node.Value)
	return nil
}

// Tokens is a list of production tokens.
type Tokens []string

func (t *Tokens) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		tokens, err := Tokenize(node.Value)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*t = tokens
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	}
	return errors.Errorf("line %d: expected a token list", node.Line)
}

// Tokenize splits s on whitespace, except inside parentheses.
func Tokenize(s string) ([]string, error) {
	var (
		tokens  []string
		current strings.Builder
		depth   int
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, errors.Errorf("unbalanced ')' in %q", s)
			}
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		current.WriteRune(r)
	}
	if depth != 0 {
		return nil, errors.Errorf("unbalanced '(' in %q", s)
	}
	flush()
	return tokens, nil
}

type Decoder struct {
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{
		yamlDecoder: yaml.NewDecoder(in),
	}
}

// Decode reads the next document of the stream, io.EOF once there are none left.
func (dec *Decoder) Decode() (*Format, error) {
	format := &Format{}
	err := dec.yamlDecoder.Decode(format)
	return format, err
}
