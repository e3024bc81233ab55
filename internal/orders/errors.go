package orders

import (
	"errors"
	"fmt"

	"delivery_tracker/internal/models"
)

var (
	// ErrInvalidInput marks malformed or non-finite request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden marks an authenticated principal acting on an order it has
	// no right to touch.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound covers both a missing order and, for GetOrder, an order the
	// requester is unrelated to. The two are deliberately indistinguishable.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidState marks a transition attempted from the wrong status.
	ErrInvalidState = errors.New("invalid order state")

	// ErrStoreUnavailable marks a persistence failure. Never retried here.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InvalidStateError names the status an order must be in for the attempted
// action.
type InvalidStateError struct {
	Expected models.OrderStatus
	Action   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("order must be %s to %s", e.Expected, e.Action)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }
