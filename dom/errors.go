package dom

import "github.com/pkg/errors"

var (
	// ErrInvalidTarget is returned when an operation needs a node of a
	// different kind, or when an insertion would break the tree's hierarchy.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrNotFound is returned when a referenced node is not where the
	// operation requires it to be, or does not belong to the tree.
	ErrNotFound = errors.New("not found")

	// ErrInvalidToken is returned for empty attribute names and for class
	// tokens that are empty or contain whitespace.
	ErrInvalidToken = errors.New("invalid token")
)
