// SPDX-License-Identifier: MIT

package store

import "errors"

var (
	// ErrNotFound is returned for an unknown run id.
	ErrNotFound = errors.New("store: run not found")

	// ErrNilResult signals a nil model or result passed to SaveRun.
	ErrNilResult = errors.New("store: nil model or result")

	// ErrCorrupt signals a stored table that cannot be rebuilt.
	ErrCorrupt = errors.New("store: corrupt run")
)
