package vsa

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by who has to act on it.
type Kind int

const (
	// InputError means the caller handed over a mesh, selection or state the
	// algorithm cannot work with.
	InputError Kind = iota + 1
	// AlgorithmicError means an internal invariant did not hold, typically a
	// border that could not be traced into a polygon.
	AlgorithmicError
	// HostIOError means reading or writing host mesh data failed.
	HostIOError
)

// String returns the kind name used in status messages.
func (k Kind) String() string {
	switch k {
	case InputError:
		return "InputError"
	case AlgorithmicError:
		return "AlgorithmicError"
	case HostIOError:
		return "HostIOError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Input errors.
var (
	ErrNotTriangulated  = errors.New("face is not a triangle, triangulate the mesh first")
	ErrEmptyMesh        = errors.New("mesh has no faces")
	ErrProxyCount       = errors.New("invalid number of proxies")
	ErrEmptySelection   = errors.New("no face selected")
	ErrInvalidFace      = errors.New("face index out of range")
	ErrNoPersistedState = errors.New("no persisted proxy data, run flood first")
	ErrDuplicateSeed    = errors.New("face is already a proxy seed")
	ErrUnknownProxy     = errors.New("no valid proxy with that label")
)

// Algorithmic errors.
var (
	ErrRingNotClosed = errors.New("border walk did not close")
	ErrRingEdgeCount = errors.New("border rings do not cover every border edge")
	ErrTooFewAnchors = errors.New("outer border has fewer than 3 anchors")
	ErrNoBorder      = errors.New("proxy has no border half-edge")
	ErrUnlabeledFace = errors.New("face has no proxy label")
)

// Host I/O errors.
var (
	ErrCorruptState = errors.New("persisted proxy data is corrupt")
)

// Error is the error type returned across the package boundary.
type Error struct {
	Kind Kind
	Op   string // Operation that failed, e.g. "flood" or "trace rings"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error of the given kind. The format may use %w to wrap a
// sentinel so callers can match it with errors.Is.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind and operation to err. Nil stays nil and an existing
// *Error keeps its original kind.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or 0 when err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
