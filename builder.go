package linn

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// GrammarBuilder populates a Grammar through chained calls:
//
//	g, err := linn.NewGrammar("bush").
//		WithAuthor("me").
//		WithRule("H").AndWeight(5.5).AndProduction().F().Rewrite("H").Done().
//		WithRule("H").AndWeight(0.5).AndProduction().F().Branch().F().EndBranch().Done().
//		Build()
//
// The first error is kept and returned by Build, later calls are no-ops.
type GrammarBuilder struct {
	grammar *Grammar
	nextID  RuleID
	err     error
}

func NewGrammar(name string) *GrammarBuilder {
	b := &GrammarBuilder{grammar: New(name)}
	if name == "" {
		b.fail(errors.Wrap(ErrInvalidArgument, "grammar name is empty"))
	}
	return b
}

func (b *GrammarBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *GrammarBuilder) apply(f func(g *Grammar) error) *GrammarBuilder {
	if b.err != nil {
		return b
	}
	if b.grammar == nil {
		b.fail(errors.Wrap(ErrInvalidArgument, "grammar builder used after Build"))
		return b
	}
	if err := f(b.grammar); err != nil {
		b.fail(err)
	}
	return b
}

func (b *GrammarBuilder) WithAuthor(author string) *GrammarBuilder {
	return b.apply(func(g *Grammar) error {
		g.Author = author
		return nil
	})
}

func (b *GrammarBuilder) WithCreationTime(t time.Time) *GrammarBuilder {
	return b.apply(func(g *Grammar) error {
		g.CreatedAt = t
		return nil
	})
}

func (b *GrammarBuilder) WithDefaultMoveLength(length float64) *GrammarBuilder {
	return b.apply(func(g *Grammar) error { return g.SetDefaultMoveLength(length) })
}

func (b *GrammarBuilder) WithDefaultYawAngle(angle float64) *GrammarBuilder {
	return b.apply(func(g *Grammar) error { return g.SetDefaultYawAngle(angle) })
}

func (b *GrammarBuilder) WithDefaultPitchAngle(angle float64) *GrammarBuilder {
	return b.apply(func(g *Grammar) error { return g.SetDefaultPitchAngle(angle) })
}

func (b *GrammarBuilder) WithDefaultRollAngle(angle float64) *GrammarBuilder {
	return b.apply(func(g *Grammar) error { return g.SetDefaultRollAngle(angle) })
}

// WithRule declares a new alternative of the rule named name.
func (b *GrammarBuilder) WithRule(name string) *RuleBuilder {
	id := b.nextID
	b.nextID++
	b.apply(func(g *Grammar) error { return g.AddRule(id, name) })
	return &RuleBuilder{parent: b, id: id}
}

// Build checks the grammar and hands it over. The builder can't be used afterwards.
func (b *GrammarBuilder) Build() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := b.grammar
	if g == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "grammar builder used after Build")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	b.grammar = nil
	return g, nil
}

// RuleBuilder configures one alternative.
type RuleBuilder struct {
	parent *GrammarBuilder
	id     RuleID
}

func (r *RuleBuilder) AndWeight(weight float64) *RuleBuilder {
	r.parent.apply(func(g *Grammar) error { return g.SetWeight(r.id, weight) })
	return r
}

func (r *RuleBuilder) AndProduction() *ProductionBuilder[*GrammarBuilder] {
	return &ProductionBuilder[*GrammarBuilder]{
		parent: r.parent,
		emit: func(s Symbol) {
			r.parent.apply(func(g *Grammar) error { return g.AppendProduction(r.id, s) })
		},
		fail: r.parent.fail,
	}
}

// ProductionBuilder appends symbols to a production or an axiom. Done returns
// to the builder it came from.
type ProductionBuilder[P any] struct {
	parent P
	emit   func(Symbol)
	fail   func(error)
	depth  int
}

// Symbols appends symbols as they are. Branch symbols must balance as with Branch and EndBranch.
func (p *ProductionBuilder[P]) Symbols(symbols ...Symbol) *ProductionBuilder[P] {
	for _, s := range symbols {
		switch s.Kind {
		case BranchOpen:
			p.depth++
		case BranchClose:
			if p.depth == 0 {
				p.fail(errors.Wrap(ErrUnbalancedBranch, "branch closed without being opened"))
				return p
			}
			p.depth--
		}
		p.emit(s)
	}
	return p
}

// F moves by the default length.
func (p *ProductionBuilder[P]) F() *ProductionBuilder[P] {
	return p.Symbols(Forward())
}

func (p *ProductionBuilder[P]) Move(distance float64) *ProductionBuilder[P] {
	if err := checkPositive("move length", distance); err != nil {
		p.fail(err)
		return p
	}
	return p.Symbols(MoveBy(distance))
}

func (p *ProductionBuilder[P]) Yaw(angle float64) *ProductionBuilder[P] {
	return p.Symbols(TurnBy(Yaw, angle))
}

func (p *ProductionBuilder[P]) Pitch(angle float64) *ProductionBuilder[P] {
	return p.Symbols(TurnBy(Pitch, angle))
}

func (p *ProductionBuilder[P]) Roll(angle float64) *ProductionBuilder[P] {
	return p.Symbols(TurnBy(Roll, angle))
}

func (p *ProductionBuilder[P]) TurnYaw() *ProductionBuilder[P]   { return p.Symbols(Turn(Yaw)) }
func (p *ProductionBuilder[P]) TurnPitch() *ProductionBuilder[P] { return p.Symbols(Turn(Pitch)) }
func (p *ProductionBuilder[P]) TurnRoll() *ProductionBuilder[P]  { return p.Symbols(Turn(Roll)) }

func (p *ProductionBuilder[P]) Rewrite(rule string) *ProductionBuilder[P] {
	if rule == "" {
		p.fail(errors.Wrap(ErrInvalidArgument, "rewrite of an empty rule name"))
		return p
	}
	return p.Symbols(RewriteOf(rule))
}

// Branch opens a branch, closed by EndBranch.
func (p *ProductionBuilder[P]) Branch() *ProductionBuilder[P] {
	return p.Symbols(Open())
}

func (p *ProductionBuilder[P]) EndBranch() *ProductionBuilder[P] {
	return p.Symbols(Close())
}

func (p *ProductionBuilder[P]) Done() P {
	if p.depth != 0 {
		p.fail(errors.Wrapf(ErrUnbalancedBranch, "%d branch(es) left open", p.depth))
	}
	return p.parent
}

// ExecutorBuilder configures an Executor.
type ExecutorBuilder struct {
	grammar        *Grammar
	onStateChanged func(State)
	rng            Random
	axiom          []Symbol
	err            error
}

func NewExecutor() *ExecutorBuilder {
	return &ExecutorBuilder{}
}

func (b *ExecutorBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *ExecutorBuilder) UseGrammar(g *Grammar) *ExecutorBuilder {
	b.grammar = g
	return b
}

// OnStateChanged registers the callback receiving every turtle state change.
func (b *ExecutorBuilder) OnStateChanged(f func(State)) *ExecutorBuilder {
	b.onStateChanged = f
	return b
}

func (b *ExecutorBuilder) WithRandom(rng Random) *ExecutorBuilder {
	b.rng = rng
	return b
}

func (b *ExecutorBuilder) WithSeed(seed int64) *ExecutorBuilder {
	return b.WithRandom(rand.New(rand.NewSource(seed)))
}

// WithAxiom starts the starting sequence, ended by Done.
func (b *ExecutorBuilder) WithAxiom() *ProductionBuilder[*ExecutorBuilder] {
	return &ProductionBuilder[*ExecutorBuilder]{
		parent: b,
		emit:   func(s Symbol) { b.axiom = append(b.axiom, s) },
		fail:   b.fail,
	}
}

func (b *ExecutorBuilder) Build() (*Executor, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.grammar == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "no grammar")
	}
	if err := b.grammar.Validate(); err != nil {
		return nil, err
	}
	if err := b.grammar.checkReferences(b.axiom); err != nil {
		return nil, errors.WithMessage(err, "in axiom")
	}

	rng := b.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	axiom := append([]Symbol(nil), b.axiom...)
	return &Executor{
		grammar:    b.grammar,
		rewriter:   NewRewriter(b.grammar, rng),
		turtle:     NewTurtle(b.grammar, b.onStateChanged),
		axiom:      axiom,
		generation: append([]Symbol(nil), axiom...),
	}, nil
}
