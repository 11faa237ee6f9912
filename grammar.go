// Package linn interprets stochastic L-Systems: weighted grammars rewritten
// generation by generation and walked by a 3D turtle.
package linn

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// RuleID identifies one alternative of a rule.
type RuleID int

const (
	DefaultMoveLength = 1.0
	DefaultAngle      = math.Pi / 2
	DefaultWeight     = 1.0
)

type ruleInstance struct {
	id          RuleID
	name        string
	weight      float64
	productions []Symbol
}

// A Grammar holds named rules, each with one or more weighted alternatives.
//
// A Grammar must not be modified while an Executor is running it. Read-only
// sharing between executors is fine.
type Grammar struct {
	Name      string
	Author    string
	CreatedAt time.Time

	moveLength float64
	yaw        float64
	pitch      float64
	roll       float64

	// Rule names in declaration order, and the arena slots of their alternatives
	names  []string
	byName map[string][]int

	arena []ruleInstance
	slots map[RuleID]int
}

func New(name string) *Grammar {
	return &Grammar{
		Name:       name,
		CreatedAt:  time.Now(),
		moveLength: DefaultMoveLength,
		yaw:        DefaultAngle,
		pitch:      DefaultAngle,
		roll:       DefaultAngle,
		byName:     make(map[string][]int),
		slots:      make(map[RuleID]int),
	}
}

func checkPositive(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return errors.Wrapf(ErrInvalidArgument, "%s must be a positive number, got %v", what, v)
	}
	return nil
}

func (g *Grammar) SetDefaultMoveLength(length float64) error {
	if err := checkPositive("default move length", length); err != nil {
		return err
	}
	g.moveLength = length
	return nil
}

func (g *Grammar) SetDefaultYawAngle(angle float64) error {
	if err := checkPositive("default yaw angle", angle); err != nil {
		return err
	}
	g.yaw = angle
	return nil
}

func (g *Grammar) SetDefaultPitchAngle(angle float64) error {
	if err := checkPositive("default pitch angle", angle); err != nil {
		return err
	}
	g.pitch = angle
	return nil
}

func (g *Grammar) SetDefaultRollAngle(angle float64) error {
	if err := checkPositive("default roll angle", angle); err != nil {
		return err
	}
	g.roll = angle
	return nil
}

func (g *Grammar) DefaultMoveLength() float64 { return g.moveLength }
func (g *Grammar) DefaultYawAngle() float64   { return g.yaw }
func (g *Grammar) DefaultPitchAngle() float64 { return g.pitch }
func (g *Grammar) DefaultRollAngle() float64  { return g.roll }

// defaultParam returns the value a parameterless terminal uses.
func (g *Grammar) defaultParam(k Kind) float64 {
	switch k {
	case Move:
		return g.moveLength
	case Yaw:
		return g.yaw
	case Pitch:
		return g.pitch
	case Roll:
		return g.roll
	}
	return 0
}

// AddRule registers a new alternative id under name, with weight 1 and an empty production.
func (g *Grammar) AddRule(id RuleID, name string) error {
	if name == "" {
		return errors.Wrapf(ErrInvalidArgument, "rule %d has an empty name", id)
	}
	if _, ok := g.slots[id]; ok {
		return errors.Wrapf(ErrInvalidArgument, "rule instance %d already registered", id)
	}

	slot := len(g.arena)
	g.arena = append(g.arena, ruleInstance{
		id:     id,
		name:   name,
		weight: DefaultWeight,
	})
	g.slots[id] = slot

	if _, ok := g.byName[name]; !ok {
		g.names = append(g.names, name)
	}
	g.byName[name] = append(g.byName[name], slot)
	return nil
}

func (g *Grammar) instance(id RuleID) (*ruleInstance, error) {
	slot, ok := g.slots[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRule, "rule instance %d", id)
	}
	return &g.arena[slot], nil
}

// AppendProduction adds s at the end of the production of id.
func (g *Grammar) AppendProduction(id RuleID, s Symbol) error {
	inst, err := g.instance(id)
	if err != nil {
		return err
	}
	inst.productions = append(inst.productions, s)
	return nil
}

// Alternatives returns the ids registered under name, in the order they were added.
func (g *Grammar) Alternatives(name string) ([]RuleID, error) {
	slots, ok := g.byName[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRule, "rule %q", name)
	}
	ids := make([]RuleID, len(slots))
	for i, slot := range slots {
		ids[i] = g.arena[slot].id
	}
	return ids, nil
}

func (g *Grammar) SetWeight(id RuleID, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return errors.Wrapf(ErrInvalidArgument, "weight of rule instance %d must be a non-negative number, got %v", id, weight)
	}
	inst, err := g.instance(id)
	if err != nil {
		return err
	}
	inst.weight = weight
	return nil
}

func (g *Grammar) Weight(id RuleID) (float64, error) {
	inst, err := g.instance(id)
	if err != nil {
		return 0, err
	}
	return inst.weight, nil
}

// Productions returns a copy of the production of id.
func (g *Grammar) Productions(id RuleID) ([]Symbol, error) {
	inst, err := g.instance(id)
	if err != nil {
		return nil, err
	}
	return append([]Symbol(nil), inst.productions...), nil
}

// RuleNames returns the declared rule names in declaration order.
func (g *Grammar) RuleNames() []string {
	return append([]string(nil), g.names...)
}

// Has reports whether a rule named name was declared.
func (g *Grammar) Has(name string) bool {
	_, ok := g.byName[name]
	return ok
}

// Validate checks that every rewrite references a declared rule and that
// every rule can be selected.
func (g *Grammar) Validate() error {
	for _, name := range g.names {
		var total float64
		for _, slot := range g.byName[name] {
			total += g.arena[slot].weight
		}
		if total <= 0 {
			return errors.Wrapf(ErrInvalidGrammar, "all alternatives of rule %q have zero weight", name)
		}
	}
	for _, inst := range g.arena {
		if err := g.checkReferences(inst.productions); err != nil {
			return errors.WithMessagef(err, "in rule instance %d (%s)", inst.id, inst.name)
		}
	}
	return nil
}

// checkReferences fails on the first rewrite to an undeclared rule.
func (g *Grammar) checkReferences(symbols []Symbol) error {
	for _, s := range symbols {
		if s.Kind == Rewrite && !g.Has(s.Rule) {
			return errors.Wrapf(ErrUnknownRule, "rule %q", s.Rule)
		}
	}
	return nil
}
