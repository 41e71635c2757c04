// SPDX-License-Identifier: MIT

package symbolic

import "errors"

// Every message is prefixed with "symbolic: ". Callers match with errors.Is;
// context (offending symbol, offset) is added by wrapping at the call site.
var (
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("symbolic: syntax error")

	// ErrUnknownFunction is returned by Parse for a call to a function the
	// kernel does not implement.
	ErrUnknownFunction = errors.New("symbolic: unknown function")

	// ErrUndefinedSymbol is returned by the Compile family when an expression
	// references a symbol that is not in the argument list.
	ErrUndefinedSymbol = errors.New("symbolic: undefined symbol")

	// ErrDuplicateArgument is returned when an argument list names the same
	// symbol twice, or contains an empty name.
	ErrDuplicateArgument = errors.New("symbolic: duplicate or empty argument")

	// ErrNilExpr is returned when a nil expression is passed for compilation.
	ErrNilExpr = errors.New("symbolic: nil expression")
)
