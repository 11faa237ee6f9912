// Package interchange imports grammars defined in an external format.
package interchange

import "github.com/Jan-Fryblik/linn"

// A Format is a decoded grammar document, ready to become a Grammar and its axiom.
type Format interface {
	Import() (*linn.Grammar, []linn.Symbol, error)
}
