package linn

import (
	"math"

	"github.com/pkg/errors"
)

// Vec3 is a point or direction in turtle space.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

// rotate returns a and b turned by angle in the plane they span, a towards b.
func rotate(a, b Vec3, angle float64) (Vec3, Vec3) {
	sin, cos := math.Sincos(angle)
	return a.Scale(cos).Add(b.Scale(sin)), b.Scale(cos).Add(a.Scale(-sin))
}

// Frame is the turtle orientation: three orthonormal axes.
type Frame struct {
	Heading Vec3
	Left    Vec3
	Up      Vec3
}

// InitialFrame points the turtle along +Y with +Z up.
var InitialFrame = Frame{
	Heading: Vec3{0, 1, 0},
	Left:    Vec3{-1, 0, 0},
	Up:      Vec3{0, 0, 1},
}

// Yaw turns the heading towards left, about the up axis.
func (f Frame) Yaw(angle float64) Frame {
	f.Heading, f.Left = rotate(f.Heading, f.Left, angle)
	return f
}

// Pitch turns the heading towards up, about the left axis.
func (f Frame) Pitch(angle float64) Frame {
	f.Heading, f.Up = rotate(f.Heading, f.Up, angle)
	return f
}

// Roll turns left towards up, about the heading axis.
func (f Frame) Roll(angle float64) Frame {
	f.Left, f.Up = rotate(f.Left, f.Up, angle)
	return f
}

// State is a snapshot of the turtle, handed to state-change callbacks.
type State struct {
	Position    Vec3
	Orientation Frame

	// Depth is the number of open branches
	Depth int

	// Cause is the command that produced this state
	Cause Symbol
}

func (s State) X() float64 { return s.Position.X }
func (s State) Y() float64 { return s.Position.Y }
func (s State) Z() float64 { return s.Position.Z }

type saved struct {
	position    Vec3
	orientation Frame
}

// A Turtle interprets terminal symbols as motion commands.
//
// Every command except a branch opening produces one call to the state-change
// callback, synchronously and in sequence order.
type Turtle struct {
	grammar        *Grammar
	onStateChanged func(State)

	position    Vec3
	orientation Frame
	stack       []saved
}

// NewTurtle returns a turtle at the origin. onStateChanged may be nil.
func NewTurtle(g *Grammar, onStateChanged func(State)) *Turtle {
	return &Turtle{
		grammar:        g,
		onStateChanged: onStateChanged,
		orientation:    InitialFrame,
	}
}

// Reset puts the turtle back at the origin with an empty branch stack.
func (t *Turtle) Reset() {
	t.position = Vec3{}
	t.orientation = InitialFrame
	t.stack = t.stack[:0]
}

func (t *Turtle) State() State {
	return State{
		Position:    t.position,
		Orientation: t.orientation,
		Depth:       len(t.stack),
	}
}

func (t *Turtle) param(s Symbol) float64 {
	if s.HasParam {
		return s.Param
	}
	return t.grammar.defaultParam(s.Kind)
}

// Step executes a single command.
func (t *Turtle) Step(s Symbol) error {
	switch s.Kind {
	case Move:
		t.position = t.position.Add(t.orientation.Heading.Scale(t.param(s)))
	case Yaw:
		t.orientation = t.orientation.Yaw(t.param(s))
	case Pitch:
		t.orientation = t.orientation.Pitch(t.param(s))
	case Roll:
		t.orientation = t.orientation.Roll(t.param(s))
	case BranchOpen:
		t.stack = append(t.stack, saved{t.position, t.orientation})
		return nil
	case BranchClose:
		if len(t.stack) == 0 {
			return errors.Wrap(ErrUnbalancedBranch, "branch closed with no open branch")
		}
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.position, t.orientation = top.position, top.orientation
	case Rewrite:
		return errors.Wrapf(ErrInternal, "rewrite symbol %q reached the turtle", s.Rule)
	default:
		return errors.Wrapf(ErrInternal, "unknown symbol kind %d", s.Kind)
	}

	if t.onStateChanged != nil {
		state := t.State()
		state.Cause = s
		t.onStateChanged(state)
	}
	return nil
}

// Interpret executes symbols in order, stopping at the first failure.
func (t *Turtle) Interpret(symbols []Symbol) error {
	for i, s := range symbols {
		if err := t.Step(s); err != nil {
			return errors.WithMessagef(err, "at symbol %d", i)
		}
	}
	return nil
}
