package iges

import (
	"errors"
	"fmt"
)

var (
	// ErrReference is wrapped by ReferenceError.
	ErrReference = errors.New("iges: unresolved entity reference")
	// ErrEntityType is wrapped by TypeError.
	ErrEntityType = errors.New("iges: unexpected entity type")

	errShortParams = errors.New("not enough parameters")
	errBadNumber   = errors.New("malformed number")
	errBadLayout   = errors.New("invalid parameter layout")
)

// DecodeError reports an entity whose parameter data does not match its
// declared layout. The entity is kept in the graph; resolving it returns
// this error.
type DecodeError struct {
	Seq  int
	Type int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("iges: decode %s (DE %d): %v", TypeName(e.Type), e.Seq, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ReferenceError reports a pointer to a sequence number that is not in the
// graph.
type ReferenceError struct {
	Seq int
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%v: DE %d", ErrReference, e.Seq)
}

func (e *ReferenceError) Unwrap() error { return ErrReference }

// TypeError reports a pointer that resolves to the wrong kind of entity.
type TypeError struct {
	Seq  int
	Got  int
	Want string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v: DE %d is a %s, want %s", ErrEntityType, e.Seq, TypeName(e.Got), e.Want)
}

func (e *TypeError) Unwrap() error { return ErrEntityType }
