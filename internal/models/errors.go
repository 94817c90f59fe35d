package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced post, user or purchase is absent.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the caller is not allowed to perform the
	// operation (delete another user's post, transition another user's order).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSelfFollow is returned when a user attempts to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrInvalidID is returned when a document ID is not a valid ObjectID hex
	// string. A malformed ID can never succeed, so it is never retried.
	ErrInvalidID = errors.New("invalid id")

	// ErrEmptyComment is returned when a comment with no text is submitted.
	ErrEmptyComment = errors.New("comment text must not be empty")

	// ErrStatusConflict is returned by the purchase repository when a
	// conditional status update matched no document, i.e. a concurrent
	// transition won the race and the caller must re-read.
	ErrStatusConflict = errors.New("purchase status changed concurrently")
)

// InvalidTransitionError reports an order status change that is not in the
// legal transition table, or one attempted by the wrong actor.
type InvalidTransitionError struct {
	From  OrderStatus
	To    OrderStatus
	Actor Actor
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q by %s", e.From, e.To, e.Actor)
}

// TransientError wraps a store or network failure that is safe to retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTerminal reports whether err is a user-facing failure that must not be
// retried. Anything else is treated as transient by the retry policy.
func IsTerminal(err error) bool {
	if errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrSelfFollow) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrEmptyComment) ||
		errors.Is(err, ErrStatusConflict) {
		return true
	}
	var invalid *InvalidTransitionError
	return errors.As(err, &invalid)
}
