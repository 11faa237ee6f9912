package linn

import "github.com/pkg/errors"

// Error kinds returned by the grammar store, the rewriter, the turtle and the executor.
// Returned errors wrap one of these, match them with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownRule      = errors.New("unknown rule")
	ErrInvalidGrammar   = errors.New("invalid grammar")
	ErrUnbalancedBranch = errors.New("unbalanced branch")
	ErrInternal         = errors.New("internal error")
)
