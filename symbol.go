package linn

import "strconv"

// Kind tells which command a Symbol stands for.
type Kind uint8

const (
	Rewrite Kind = iota
	Move
	Yaw
	Pitch
	Roll
	BranchOpen
	BranchClose
)

var kindNames = [...]string{
	Rewrite:     "rewrite",
	Move:        "F",
	Yaw:         "yaw",
	Pitch:       "pitch",
	Roll:        "roll",
	BranchOpen:  "[",
	BranchClose: "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// A Symbol is one element of a production or a generation.
//
// Rewrite symbols carry the name of the rule they expand to, every other kind
// is a turtle command. Param overrides the grammar default when HasParam is set.
type Symbol struct {
	Kind     Kind
	Rule     string
	Param    float64
	HasParam bool
}

// RewriteOf returns a placeholder for the rule named name.
func RewriteOf(name string) Symbol {
	return Symbol{Kind: Rewrite, Rule: name}
}

// Forward moves the turtle by the grammar's default length.
func Forward() Symbol {
	return Symbol{Kind: Move}
}

func MoveBy(distance float64) Symbol {
	return Symbol{Kind: Move, Param: distance, HasParam: true}
}

// Turn returns a rotation of the given kind by the grammar default angle.
func Turn(kind Kind) Symbol {
	return Symbol{Kind: kind}
}

// TurnBy returns a rotation of the given kind by angle radians.
func TurnBy(kind Kind, angle float64) Symbol {
	return Symbol{Kind: kind, Param: angle, HasParam: true}
}

func Open() Symbol {
	return Symbol{Kind: BranchOpen}
}

func Close() Symbol {
	return Symbol{Kind: BranchClose}
}

// IsTerminal reports whether s is a turtle command rather than a rewrite placeholder.
func (s Symbol) IsTerminal() bool {
	return s.Kind != Rewrite
}

// Symbol stringifier
func (s Symbol) String() string {
	if s.Kind == Rewrite {
		return s.Rule
	}
	out := s.Kind.String()
	if !s.HasParam {
		return out
	}
	return out + "(" + strconv.FormatFloat(s.Param, byte('f'), -1, 64) + ")"
}

// Sequence renders symbols separated by single spaces.
func Sequence(symbols []Symbol) string {
	var out []byte
	for i, s := range symbols {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, s.String()...)
	}
	return string(out)
}
