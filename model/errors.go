// SPDX-License-Identifier: MIT

package model

import "errors"

var (
	// ErrInvalidAssortativity is returned for anything other than Positive or Negative.
	ErrInvalidAssortativity = errors.New("model: invalid assortativity")

	// ErrInvalidBounds signals a non-finite bound or Lower >= Upper.
	ErrInvalidBounds = errors.New("model: invalid bounds")

	// ErrMissingEquation signals a nil equilibrium condition.
	ErrMissingEquation = errors.New("model: missing equation")

	// ErrInvalidParam signals a non-finite parameter value or an empty name.
	ErrInvalidParam = errors.New("model: invalid parameter")

	// ErrReservedName signals a parameter named like a state or independent variable.
	ErrReservedName = errors.New("model: reserved name")

	// ErrUnknownParam is returned by Override for a parameter the model does not have.
	ErrUnknownParam = errors.New("model: unknown parameter")

	// ErrInvalidFile wraps every failure to read or validate a model file.
	ErrInvalidFile = errors.New("model: invalid model file")
)
