package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptReference marks a reference whose target cannot be resolved to a commit.
	ErrCorruptReference = errors.New("corrupt reference")
	// ErrUnreadableObject marks a commit that exists but cannot be read.
	ErrUnreadableObject = errors.New("unreadable object")
	// ErrShortIDExhausted marks a collected set in which no prefix length is unique.
	ErrShortIDExhausted = errors.New("short id length exhausted")
	// ErrStaleTracking marks an upstream configuration naming a missing ref.
	ErrStaleTracking = errors.New("stale upstream tracking")
	// ErrDanglingParent is an internal invariant violation: a collected commit's
	// parent is missing from the collected set.
	ErrDanglingParent = errors.New("parent outside collected set")
)

// WarningKind classifies a recoverable problem found while building the graph.
type WarningKind int

const (
	CorruptReference WarningKind = iota
	UnreadableObject
	ShortIDExhausted
	StaleTracking
)

// String returns a string representation of the warning kind.
func (k WarningKind) String() string {
	switch k {
	case CorruptReference:
		return "corrupt-reference"
	case UnreadableObject:
		return "unreadable-object"
	case ShortIDExhausted:
		return "short-id-exhausted"
	case StaleTracking:
		return "stale-tracking"
	default:
		return "unknown"
	}
}

func (k WarningKind) sentinel() error {
	switch k {
	case CorruptReference:
		return ErrCorruptReference
	case UnreadableObject:
		return ErrUnreadableObject
	case ShortIDExhausted:
		return ErrShortIDExhausted
	case StaleTracking:
		return ErrStaleTracking
	default:
		return nil
	}
}

// Warning is a recovered per-reference or per-object problem. The run that
// produced it still yields a graph.
type Warning struct {
	Kind   WarningKind
	Ref    string // fully-qualified ref name, when the warning concerns one
	Commit string // commit id, when the warning concerns one
	Err    error  // underlying cause
}

func (w Warning) Error() string {
	subject := w.Ref
	if subject == "" {
		subject = w.Commit
	} else if w.Commit != "" {
		subject = fmt.Sprintf("%s (%s)", w.Ref, w.Commit)
	}
	msg := w.Kind.String()
	if subject != "" {
		msg += ": " + subject
	}
	if w.Err != nil {
		msg += ": " + w.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind's sentinel error and the underlying cause.
func (w Warning) Unwrap() []error {
	var errs []error
	if s := w.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if w.Err != nil {
		errs = append(errs, w.Err)
	}
	return errs
}
